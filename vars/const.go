package vars

const (
	// 默认模型名称
	QWEN7B = "qwen2.5:7b"
	QWEN3B = "qwen2.5:3b"
	GPT4O  = "gpt-4o-mini"

	// ES 索引
	AUTHORITY_INDEX = "legal_authorities_v1"

	// API 前缀
	API_PREFIX = "/api/v1"

	// 外部服务名称，用于调用日志与错误信息
	SERVICE_GENERATOR  = "generator"
	SERVICE_TRANSLATOR = "translator"

	// 生成 / 翻译方式
	MODE_HTTP = "http"
	MODE_LLM  = "llm"
	MODE_NONE = "none"

	// LLM 提供方
	PROVIDER_OLLAMA = "ollama"
	PROVIDER_OPENAI = "openai"

	// 数据库驱动
	DRIVER_POSTGRES = "postgres"
	DRIVER_SQLITE   = "sqlite"
	DRIVER_NONE     = "none"
)

// 提示词
const (
	GENERATE = `
You are a contract drafting engine. Draft a complete {{.Type}} contract from the JSON request below.

Rules:
1. Use every party in "parties" by its exact name.
2. Include every clause in "clauses", in order, and keep its intent.
3. Apply the governing law of "jurisdiction" when it is not empty.
4. Use every other field of the request where it belongs in the contract.
5. Do not invent statutes or case law. If you cite an authority, list it in "references".

Return JSON only, in exactly this shape:
{"html": "<full contract as HTML>", "warnings": ["..."], "hallucinationWarning": false, "references": [{"citation": "", "caseName": "", "court": "", "date": "", "url": ""}]}

Request:
{{.Request}}
`

	TRANSLATE = `
Translate the following legal text from {{.Source}} to {{.Target}}.
Keep defined terms, numbering and party names unchanged. Return only the translated text.

Text:
{{.Text}}
`
)
