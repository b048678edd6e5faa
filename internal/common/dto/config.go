package dto

// Slide type registry requests. IsActive travels as "true" or "false".
type (
	UpsertSlideTypeRequest struct {
		TypeKey   string `json:"typeKey" binding:"required,max=50"`
		Label     string `json:"label" binding:"required"`
		CharLimit int    `json:"charLimit" binding:"min=0"`
		IsActive  string `json:"isActive" binding:"required,oneof=true false"`
	}

	CreateSlideTypeRequest struct {
		TypeKey   string `json:"typeKey" binding:"required,max=50"`
		Label     string `json:"label" binding:"required"`
		CharLimit int    `json:"charLimit" binding:"min=0"`
	}

	ToggleSlideTypeRequest struct {
		TypeKey  string `json:"typeKey" binding:"required"`
		IsActive string `json:"isActive" binding:"required,oneof=true false"`
	}

	SlideTypeKeyRequest struct {
		TypeKey string `json:"typeKey" binding:"required"`
	}

	UpdateSlideImageRequest struct {
		TypeKey   string `json:"typeKey" binding:"required"`
		ImageData string `json:"imageData" binding:"required"`
		FileName  string `json:"fileName" binding:"required"`
	}

	SlideImageResponse struct {
		Success  bool   `json:"success"`
		ImageURL string `json:"imageUrl"`
	}
)

// UpdateSmtpRequest replaces the SMTP settings. An empty Pass keeps the
// stored password.
type UpdateSmtpRequest struct {
	Host             string `json:"host"`
	Port             int    `json:"port" binding:"omitempty,min=1,max=65535"`
	Secure           bool   `json:"secure"`
	User             string `json:"user"`
	Pass             string `json:"pass"`
	From             string `json:"from"`
	DestinationEmail string `json:"destinationEmail" binding:"omitempty,email"`
}

// SmtpConfigResponse never carries the password.
type SmtpConfigResponse struct {
	Host             string `json:"host"`
	Port             int    `json:"port"`
	Secure           bool   `json:"secure"`
	User             string `json:"user"`
	HasPass          bool   `json:"hasPass"`
	From             string `json:"from"`
	DestinationEmail string `json:"destinationEmail"`
}

// UpdateAiConfigRequest changes the fields that are set. An empty APIToken
// keeps the stored one.
type UpdateAiConfigRequest struct {
	Provider         *string `json:"provider" binding:"omitempty,oneof=infomaniak openai mistral claude gemini"`
	APIToken         *string `json:"apiToken"`
	ProductID        *string `json:"productId"`
	OrganizationID   *string `json:"organizationId"`
	AnthropicVersion *string `json:"anthropicVersion"`
	Model            *string `json:"model"`
	MaxTokens        *int    `json:"maxTokens" binding:"omitempty,min=1,max=32000"`
	Temperature      *int    `json:"temperature" binding:"omitempty,min=0,max=100"`
	IsEnabled        *bool   `json:"isEnabled"`
}

type AiConfigResponse struct {
	Provider         string `json:"provider"`
	HasAPIToken      bool   `json:"hasApiToken"`
	ProductID        string `json:"productId"`
	OrganizationID   string `json:"organizationId"`
	AnthropicVersion string `json:"anthropicVersion"`
	Model            string `json:"model"`
	MaxTokens        int    `json:"maxTokens"`
	Temperature      int    `json:"temperature"`
	IsEnabled        bool   `json:"isEnabled"`
}

type GenerateDescriptionRequest struct {
	TextContent string `json:"textContent" binding:"required"`
}

type GenerateDescriptionResponse struct {
	Description string `json:"description"`
}

type UpdateBrandRequest struct {
	OrganizationName string  `json:"organizationName"`
	Description      string  `json:"description"`
	LogoURL          *string `json:"logoUrl"`
}

// UploadRequest carries a base64 file, with or without a data: prefix.
type UploadRequest struct {
	FileName string `json:"fileName" binding:"required"`
	FileData string `json:"fileData" binding:"required"`
	MimeType string `json:"mimeType"`
}

type UpdateSlideConfigRequest struct {
	MinSlides int `json:"minSlides" binding:"required"`
	MaxSlides int `json:"maxSlides" binding:"required"`
}

type CreateHelpRequest struct {
	Type         string `json:"type" binding:"required,oneof=file link cgu"`
	Title        string `json:"title" binding:"required,max=255"`
	Description  string `json:"description"`
	URL          string `json:"url" binding:"required"`
	DisplayOrder int    `json:"displayOrder" binding:"min=0"`
}

type HelpIDRequest struct {
	ID uint `json:"id" binding:"required"`
}
