package errorx

import (
	"fmt"
	"maps"
	"net/http"
	"strings"
)

// Code is the machine-readable error code clients branch on.
type Code string

const (
	CodeBadRequest         Code = "BAD_REQUEST"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeNotFound           Code = "NOT_FOUND"
	CodePreconditionFailed Code = "PRECONDITION_FAILED"
	CodeInternal           Code = "INTERNAL_SERVER_ERROR"
)

// HTTPStatus maps a code onto its transport status.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodePreconditionFailed:
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}

// APIError is a localizable error with a stable code. Package-level values
// are templates: WithParam, WithDetails and Wrap return copies.
type APIError struct {
	Code      Code   `json:"code"`
	Reason    string `json:"reason,omitempty"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	TraceID   string `json:"traceId,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`

	MessageID      string         `json:"-"`
	DefaultMessage string         `json:"-"`
	Data           map[string]any `json:"-"`
	cause          error
}

func New(code Code, messageID, defaultMessage string) *APIError {
	return &APIError{Code: code, MessageID: messageID, DefaultMessage: defaultMessage}
}

func (e *APIError) Error() string {
	msg := e.Render()
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

func (e *APIError) Unwrap() error { return e.cause }

// Is matches another APIError carrying the same message ID.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.MessageID == e.MessageID && t.Code == e.Code
}

// HTTPStatus returns the transport status for the error's code.
func (e *APIError) HTTPStatus() int { return e.Code.HTTPStatus() }

// Render fills DefaultMessage's {{.Key}} placeholders from Data.
func (e *APIError) Render() string {
	msg := e.DefaultMessage
	for k, v := range e.Data {
		msg = strings.ReplaceAll(msg, "{{."+k+"}}", fmt.Sprint(v))
	}
	return msg
}

func (e *APIError) clone() *APIError {
	c := *e
	c.Data = maps.Clone(e.Data)
	return &c
}

func (e *APIError) WithParam(key string, value any) *APIError {
	c := e.clone()
	if c.Data == nil {
		c.Data = make(map[string]any)
	}
	c.Data[key] = value
	return c
}

func (e *APIError) WithDetails(details any) *APIError {
	c := e.clone()
	c.Details = details
	return c
}

// WithReason sets a sub-code refining Code, such as ACCOUNT_PENDING.
func (e *APIError) WithReason(reason string) *APIError {
	c := e.clone()
	c.Reason = reason
	return c
}

// Wrap attaches the underlying cause, kept out of the response body.
func (e *APIError) Wrap(err error) *APIError {
	c := e.clone()
	c.cause = err
	return c
}

// Generic errors
var (
	ErrBadRequest      = New(CodeBadRequest, "ErrorBadRequest", "Requête invalide")
	ErrInvalidInput    = New(CodeBadRequest, "ErrorInvalidInput", "Données invalides : {{.Reason}}")
	ErrUnauthorized    = New(CodeUnauthorized, "ErrorUnauthorized", "Please login (10001)")
	ErrInvalidIdentity = New(CodeUnauthorized, "ErrorInvalidIdentity", "Jeton d'identité invalide")
	ErrForbidden       = New(CodeForbidden, "ErrorForbidden", "You do not have required permission (10002)")
	ErrNotFound        = New(CodeNotFound, "ErrorNotFound", "Ressource introuvable")
	ErrInternal        = New(CodeInternal, "ErrorInternal", "Une erreur interne est survenue")
)

// Access errors
var (
	ErrAccountPending              = New(CodeForbidden, "ErrorAccountPending", "Votre compte est en attente de validation par un administrateur").WithReason("ACCOUNT_PENDING")
	ErrAccessDenied                = New(CodeForbidden, "ErrorAccessDenied", "Votre accès à l'application a été refusé ou suspendu").WithReason("ACCESS_DENIED")
	ErrSuperAdminOnly              = New(CodeForbidden, "ErrorSuperAdminOnly", "Seul le super administrateur peut effectuer cette action")
	ErrAccessNotAllowed            = New(CodeForbidden, "ErrorAccessNotAllowed", "Accès non autorisé")
	ErrAdminCannotModifySuperAdmin = New(CodeForbidden, "ErrorAdminCannotModifySuperAdmin", "Un admin ne peut pas modifier un super admin")
	ErrOnlySuperAdminPromotes      = New(CodeForbidden, "ErrorOnlySuperAdminPromotes", "Seul le super admin peut promouvoir en super admin")
	ErrAdminCannotDeleteSuperAdmin = New(CodeForbidden, "ErrorAdminCannotDeleteSuperAdmin", "Un admin ne peut pas supprimer un super admin")
	ErrCannotDeleteSelf            = New(CodeForbidden, "ErrorCannotDeleteSelf", "Vous ne pouvez pas vous supprimer vous-même")
	ErrAdminCannotBlockSuperAdmin  = New(CodeForbidden, "ErrorAdminCannotBlockSuperAdmin", "Un admin ne peut pas bloquer un super admin")
	ErrCannotBlockSelf             = New(CodeForbidden, "ErrorCannotBlockSelf", "Vous ne pouvez pas vous bloquer vous-même")
	ErrAdminCannotRejectSuperAdmin = New(CodeForbidden, "ErrorAdminCannotRejectSuperAdmin", "Un admin ne peut pas rejeter un super admin")
	ErrCannotRejectSelf            = New(CodeForbidden, "ErrorCannotRejectSelf", "Vous ne pouvez pas vous rejeter vous-même")
)

// Resource errors
var (
	ErrCarrouselNotFound    = New(CodeNotFound, "ErrorCarrouselNotFound", "Carrousel non trouvé")
	ErrUserNotFound         = New(CodeNotFound, "ErrorUserNotFound", "Utilisateur non trouvé")
	ErrSlideTypeNotFound    = New(CodeNotFound, "ErrorSlideTypeNotFound", "Type de slide non trouvé")
	ErrSlideTypeExists      = New(CodeBadRequest, "ErrorSlideTypeExists", "Ce type de slide existe déjà")
	ErrReservedSlideType    = New(CodeBadRequest, "ErrorReservedSlideType", "Les types Titre et Finale ne peuvent pas être modifiés")
	ErrNotificationNotFound = New(CodeNotFound, "ErrorNotificationNotFound", "Notification non trouvée")
	ErrHelpResourceNotFound = New(CodeNotFound, "ErrorHelpResourceNotFound", "Ressource d'aide non trouvée")
)

// Carousel content errors
var (
	ErrSlideValidation = New(CodeBadRequest, "ErrorSlideValidation", "Le carrousel est invalide : {{.Reason}}")
)

// Email errors
var (
	ErrNoDestinationEmail = New(CodeBadRequest, "ErrorNoDestinationEmail",
		"Aucune adresse email de destination. Veuillez configurer l'email de destination dans les paramètres SMTP ou fournir une adresse email.")
	ErrSmtpUnavailable = New(CodeInternal, "ErrorSmtpUnavailable",
		"La configuration SMTP n'est pas disponible. Veuillez configurer les paramètres SMTP.")
	ErrEmailSend = New(CodeInternal, "ErrorEmailSend", "Erreur d'envoi d'email: {{.Reason}}")
)

// AI errors
var (
	ErrAiNotConfigured = New(CodePreconditionFailed, "ErrorAiNotConfigured", "La génération IA n'est pas activée ou configurée")
	ErrAiGeneration    = New(CodeInternal, "ErrorAiGeneration", "Erreur de génération IA: {{.Reason}}")
)

// Configuration and upload errors
var (
	ErrSlideConfigBounds       = New(CodeBadRequest, "ErrorSlideConfigBounds", "Les bornes doivent respecter 2 ≤ minimum ≤ maximum ≤ 100")
	ErrBrandNameRequired       = New(CodeBadRequest, "ErrorBrandNameRequired", "Le nom de l'organisation est requis")
	ErrBrandDescriptionTooLong = New(CodeBadRequest, "ErrorBrandDescriptionTooLong", "La description ne peut pas dépasser 250 caractères")
	ErrInvalidImage            = New(CodeBadRequest, "ErrorInvalidImage", "Le fichier doit être une image")
	ErrInvalidFileData         = New(CodeBadRequest, "ErrorInvalidFileData", "Contenu de fichier invalide")
	ErrFileTooLarge            = New(CodeBadRequest, "ErrorFileTooLarge", "Le fichier dépasse la taille maximale de {{.MaxMB}} Mo")
)
