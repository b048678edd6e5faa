package dto

import "encoding/json"

// CreateCarrouselRequest saves a new carousel. Slides is the JSON array of
// slides, sent either as a string or as the array itself.
type CreateCarrouselRequest struct {
	Titre            string    `json:"titre" binding:"required"`
	Thematique       string    `json:"thematique" binding:"required"`
	EmailDestination *string   `json:"emailDestination" binding:"omitempty,email"`
	Slides           RawSlides `json:"slides" binding:"required"`
}

// UpdateCarrouselRequest replaces the fields that are set.
type UpdateCarrouselRequest struct {
	ID               uint      `json:"id" binding:"required"`
	Titre            *string   `json:"titre"`
	Thematique       *string   `json:"thematique"`
	EmailDestination *string   `json:"emailDestination" binding:"omitempty,email"`
	Slides           RawSlides `json:"slides"`
}

type IDQuery struct {
	ID uint `form:"id" json:"id" binding:"required"`
}

type IDsRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

// RawSlides accepts the slide list as a JSON string or as a JSON array.
type RawSlides []byte

func (r *RawSlides) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = RawSlides(s)
		return nil
	}
	if string(data) == "null" {
		*r = nil
		return nil
	}
	*r = append((*r)[:0], data...)
	return nil
}

// SendCarrouselRequest mails a carousel. EmailTo defaults to the configured
// destination address.
type SendCarrouselRequest struct {
	CarrouselID uint   `json:"carrouselId" binding:"required"`
	EmailTo     string `json:"emailTo" binding:"omitempty,email"`
}

// SmtpTestResponse describes the mail settings in effect without sending.
type SmtpTestResponse struct {
	Exists           bool   `json:"exists"`
	Source           string `json:"source,omitempty"`
	Host             string `json:"host"`
	Port             int    `json:"port"`
	Secure           bool   `json:"secure"`
	User             string `json:"user"`
	HasPass          bool   `json:"hasPass"`
	From             string `json:"from"`
	DestinationEmail string `json:"destinationEmail"`
	IsValid          bool   `json:"isValid"`
}

type ThematiqueQuery struct {
	SearchTerm string `form:"searchTerm" json:"searchTerm"`
}

type AuditListQuery struct {
	Limit int `form:"limit" json:"limit" binding:"omitempty,min=1,max=1000"`
}

type NotificationIDRequest struct {
	NotificationID uint `json:"notificationId" binding:"required"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
