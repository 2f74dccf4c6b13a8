package router

import (
	"github.com/gin-gonic/gin"

	"lexassist/api/handler"
	"lexassist/vars"
)

func RegisterRoutes(r *gin.Engine, contractH *handler.ContractHandler, reviewH *handler.ReviewHandler, debugH *handler.DebugHandler) {
	api := r.Group(vars.API_PREFIX)
	{
		contract := api.Group("/contract")
		{
			contract.GET("/types", contractH.ListTypes)
			contract.GET("/types/:type", contractH.GetType)
			contract.GET("/types/:type/seed", contractH.Seed)
			contract.POST("/generate", contractH.Generate)
		}
		review := api.Group("/review")
		{
			review.POST("/upload", reviewH.Upload)
			review.POST("/text", reviewH.Text)
		}
		api.POST("/translate", contractH.Translate)

		if debugH != nil {
			debug := api.Group("/debug")
			{
				debug.GET("/last-call", debugH.LastCall)
				debug.GET("/calls", debugH.Calls)
			}
		}
	}
}
