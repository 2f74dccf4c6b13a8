package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"lexassist/logic/form"
	"lexassist/logic/ingestion/extract"
	"lexassist/logic/review"
	"lexassist/logic/schema"
	"lexassist/service"
)

const msgExtractFailed = "Unable to extract text from the document."

// userMessage 把错误转换成 HTTP 状态码和给用户看的提示
func userMessage(err error) (int, string) {
	var (
		verr   *form.ValidationError
		exErr  *extract.ExtractionError
		svcErr *service.ExternalServiceError
	)

	switch {
	case errors.As(err, &verr):
		switch verr.Kind {
		case form.MissingParties:
			return http.StatusBadRequest, fmt.Sprintf("Please enter at least %d parties.", verr.Min)
		case form.EmptyClauses:
			return http.StatusBadRequest, "Please add at least one clause."
		default:
			label := verr.Label
			if label == "" {
				label = verr.Key
			}
			return http.StatusBadRequest, fmt.Sprintf("%s needs at least %d entries.", label, verr.Min)
		}
	case errors.Is(err, schema.ErrSchemaNotFound):
		return http.StatusNotFound, "Unknown contract type."
	case errors.As(err, &exErr):
		if exErr.Kind == extract.UnsupportedType {
			return http.StatusUnprocessableEntity, "Unsupported file type. Please upload a .txt, .pdf or .docx file."
		}
		return http.StatusUnprocessableEntity, msgExtractFailed
	case errors.Is(err, review.ErrEmptyDocument):
		return http.StatusUnprocessableEntity, msgExtractFailed
	case errors.Is(err, extract.ErrDocumentTooLarge):
		return http.StatusRequestEntityTooLarge, "The document is too large."
	case errors.As(err, &svcErr):
		return http.StatusBadGateway, fmt.Sprintf("The %s service returned an error: %s", svcErr.Service, svcErr.Message)
	case errors.Is(err, service.ErrTranslationDisabled):
		return http.StatusServiceUnavailable, "Translation is not available."
	case errors.Is(err, service.ErrEmptyTranslation):
		return http.StatusBadRequest, "Text and target language are required."
	}

	log.Printf(">>> [ERROR] %v", err)
	return http.StatusInternalServerError, "Internal server error."
}
