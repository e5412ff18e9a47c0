package hackathon_client

const (
	// Default server for local development
	DefaultBaseURL = "http://localhost:5000"

	// API Endpoints
	DeadlineEndpoint    = "/get_deadline"
	DetailsEndpoint     = "/hackathon-details"
	UpdateEndpoint      = "/admin/update"
	SubmitEndpoint      = "/submit"
	SubmissionsEndpoint = "/submissions"
	WinnersEndpoint     = "/winners"

	// Multipart form fields accepted by the admin update endpoint
	FieldDeadline    = "deadline"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldRules       = "rules"
	FieldPrizeFirst  = "prize_first"
	FieldPrizeSecond = "prize_second"
	FieldPrizeThird  = "prize_third"

	// Multipart form fields accepted by the submit endpoint
	FieldEmail  = "email"
	FieldGitHub = "github"
	FieldVideo  = "video"
)
