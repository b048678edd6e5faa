package cnst

const (
	AppName = "carrousel"
	// Organization signs outgoing mails and spreadsheets.
	Organization = "Guichet du Numérique"
)

// ApiServerYaml is the configuration file looked up when --conf is not set.
const ApiServerYaml = "apiserver.yaml"
