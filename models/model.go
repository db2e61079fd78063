package models

// APIVersion pins the GitHub REST API version sent with every dispatch.
const APIVersion = "2022-11-28"

// DispatchRequest describes one workflow_dispatch event.
type DispatchRequest struct {
	Owner      string         `yaml:"owner" json:"owner"`
	Repo       string         `yaml:"repo" json:"repo"`
	WorkflowID string         `yaml:"workflow_id" json:"workflow_id"`
	Ref        string         `yaml:"ref" json:"ref"`
	Inputs     WorkflowInputs `yaml:"inputs" json:"inputs"`
}

// WorkflowInputs are passed through to the triggered workflow. All four keys
// are always serialised, empty or not.
type WorkflowInputs struct {
	OSURL    string `yaml:"OS_URL" json:"OS_URL"`
	OSDURL   string `yaml:"OSD_URL" json:"OSD_URL"`
	BuildID  string `yaml:"build_id" json:"build_id"`
	UniqueID string `yaml:"UNIQUE_ID" json:"UNIQUE_ID"`
}

// Credentials identify the caller to GitHub. Secret is a private key PEM for
// app auth or a token for token auth.
type Credentials struct {
	AppID          string
	InstallationID int64
	Secret         string
}
