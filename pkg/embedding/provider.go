package embedding

// Task types hint the provider about the retrieval role of the text.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// Provider converts text into a fixed-length vector.
type Provider interface {
	Generate(text string, taskType string) (*Response, error)
}

type ResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type Response struct {
	Embedding ResponseEmbedding `json:"embedding"`
}
