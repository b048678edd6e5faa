package cnst

// Tracer names used across the services
const (
	TraceAPIServer = "carrousel/apiserver"
)

// Span names
const (
	SpanExportSpreadsheet = "carrousel.export.spreadsheet"
	SpanExportBundle      = "carrousel.export.bundle"
	SpanSendEmail         = "carrousel.email.send"
	SpanAIGenerate        = "ai.generate_image_description"
)

// Attribute keys
const (
	AttrCarrouselID    = "carrousel.id"
	AttrCarrouselCount = "carrousel.count"
	AttrAIProvider     = "ai.provider"
	AttrAIModel        = "ai.model"
)
