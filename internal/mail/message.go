package mail

import (
	"fmt"
	"html"

	"github.com/guichet-numerique/carrousel/internal/common/cnst"
)

// Attachment is a file sent along with a message.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Message is an outgoing email with a plain text and an HTML body.
type Message struct {
	To          string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// CarrouselMessage builds the email carrying a carousel spreadsheet.
func CarrouselMessage(to, titre, thematique string, file Attachment) Message {
	return Message{
		To:      to,
		Subject: "Carrousel GdN - " + titre,
		Text: fmt.Sprintf("Bonjour,\n\nVeuillez trouver ci-joint le fichier Excel du carrousel \"%s\".\n\nThématique : %s\n\nCordialement,\n%s",
			titre, thematique, cnst.Organization),
		HTML: fmt.Sprintf("<p>Bonjour,</p><p>Veuillez trouver ci-joint le fichier Excel du carrousel <strong>%s</strong>.</p><p>Thématique : %s</p><p>Cordialement,<br>%s</p>",
			html.EscapeString(titre), html.EscapeString(thematique), html.EscapeString(cnst.Organization)),
		Attachments: []Attachment{file},
	}
}
