// Package models holds the request and response shapes of the TrainHub
// backend API. JSON field names follow the backend's snake_case wire
// format.
package models

// UserRole is the access level of a platform account.
type UserRole string

const (
	RoleClient        UserRole = "CLIENT"
	RoleTrainer       UserRole = "TRAINER"
	RoleAdministrator UserRole = "ADMINISTRATOR"
)

// User represents a platform account.
type User struct {
	ID        int      `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Role      UserRole `json:"role"`
	DOB       string   `json:"dob,omitempty"` // YYYY-MM-DD
}

// SignupRequest creates a new account. Role is assigned server-side.
type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DOB       string `json:"dob,omitempty"`
}

// LoginRequest authenticates by email and password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token is the login response: a bearer token plus the authenticated
// user.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// UserUpdate carries the mutable account fields; nil pointers are
// omitted from the request so the backend leaves them untouched.
type UserUpdate struct {
	FirstName       *string   `json:"first_name,omitempty"`
	LastName        *string   `json:"last_name,omitempty"`
	Supervisor      *string   `json:"supervisor,omitempty"`
	DOB             *string   `json:"dob,omitempty"`
	Role            *UserRole `json:"role,omitempty"`
	CurrentPassword *string   `json:"current_password,omitempty"`
	NewPassword     *string   `json:"new_password,omitempty"`
}

// UserCreate is the admin-side account creation payload.
type UserCreate struct {
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Role      UserRole `json:"role"`
	DOB       string   `json:"dob,omitempty"`
}

// Address is a user's postal address. Each user has at most one.
type Address struct {
	ID            int    `json:"id"`
	UserID        int    `json:"user_id"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
}

// AddressCreate is the create payload for an address.
type AddressCreate struct {
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
}

// AddressUpdate carries partial address changes.
type AddressUpdate struct {
	StreetAddress *string `json:"street_address,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty"`
	PostalCode    *string `json:"postal_code,omitempty"`
	Country       *string `json:"country,omitempty"`
}

// Session is a training session run by a trainer.
type Session struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"` // YYYY-MM-DD
	EndDate     string `json:"end_date"`
	TrainerID   int    `json:"trainer_id"`
	TrainerName string `json:"trainer_name,omitempty"`
	IsPublic    bool   `json:"is_public"`
	SessionCode string `json:"session_code,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
	CreatedByID int    `json:"created_by_id,omitempty"`
}

// SessionCreate is the create payload for a session.
type SessionCreate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	TrainerID   int    `json:"trainer_id"`
	IsPublic    bool   `json:"is_public"`
}

// SessionUpdate carries partial session changes.
type SessionUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
	TrainerID   *int    `json:"trainer_id,omitempty"`
	IsPublic    *bool   `json:"is_public,omitempty"`
	SessionCode *string `json:"session_code,omitempty"`
}

// QuestionnaireInstance attaches a questionnaire to a session. Only
// active instances are visible to enrolled clients.
type QuestionnaireInstance struct {
	ID                 int    `json:"id"`
	Title              string `json:"title"`
	QuestionnaireID    int    `json:"questionnaire_id"`
	SessionID          int    `json:"session_id"`
	IsActive           bool   `json:"is_active"`
	QuestionnaireTitle string `json:"questionnaire_title,omitempty"`
	CreatedAt          string `json:"created_at,omitempty"`
	UpdatedAt          string `json:"updated_at,omitempty"`
}

// QuestionnaireInstanceCreate is the attach payload.
type QuestionnaireInstanceCreate struct {
	Title           string `json:"title"`
	QuestionnaireID int    `json:"questionnaire_id"`
	SessionID       int    `json:"session_id"`
	IsActive        bool   `json:"is_active"`
}

// QuestionnaireInstanceUpdate carries partial instance changes.
type QuestionnaireInstanceUpdate struct {
	Title    *string `json:"title,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// Enrollment records a client's membership in a session. ClientName and
// SessionTitle are denormalized by the backend for display.
type Enrollment struct {
	ID           int    `json:"id"`
	ClientID     int    `json:"client_id"`
	SessionID    int    `json:"session_id"`
	Status       string `json:"status"`
	EnrolledAt   string `json:"enrolled_at,omitempty"`
	ClientName   string `json:"client_name,omitempty"`
	SessionTitle string `json:"session_title,omitempty"`
}

// EnrollmentCreate is the enroll payload.
type EnrollmentCreate struct {
	ClientID  int    `json:"client_id"`
	SessionID int    `json:"session_id"`
	Status    string `json:"status,omitempty"`
}

// Question is a single questionnaire item. Configuration holds the
// type-specific settings (choices, box sizes and so on).
type Question struct {
	ID               int                    `json:"id,omitempty"`
	QuestionnaireID  int                    `json:"questionnaire_id,omitempty"`
	Text             string                 `json:"text"`
	Type             string                 `json:"type"`
	Order            int                    `json:"order"`
	IsRequired       bool                   `json:"is_required"`
	TimeLimitSeconds *int                   `json:"time_limit_seconds,omitempty"`
	Configuration    map[string]interface{} `json:"configuration"`
	PageNumber       int                    `json:"page_number,omitempty"`
}

// QuestionUpdate carries partial question changes.
type QuestionUpdate struct {
	Text             *string                `json:"text,omitempty"`
	Type             *string                `json:"type,omitempty"`
	Order            *int                   `json:"order,omitempty"`
	IsRequired       *bool                  `json:"is_required,omitempty"`
	TimeLimitSeconds *int                   `json:"time_limit_seconds,omitempty"`
	Configuration    map[string]interface{} `json:"configuration,omitempty"`
	PageNumber       *int                   `json:"page_number,omitempty"`
}

// Questionnaire is an authored questionnaire with its questions.
type Questionnaire struct {
	ID                 int        `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Type               string     `json:"type"`
	IsPaginated        bool       `json:"is_paginated"`
	RequiresCompletion bool       `json:"requires_completion"`
	CreatedAt          string     `json:"created_at,omitempty"`
	UpdatedAt          string     `json:"updated_at,omitempty"`
	CreatedByID        int        `json:"created_by_id,omitempty"`
	QuestionCount      *int       `json:"question_count,omitempty"`
	Questions          []Question `json:"questions,omitempty"`
}

// QuestionnaireCreate is the authoring payload.
type QuestionnaireCreate struct {
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Type               string     `json:"type"`
	IsPaginated        bool       `json:"is_paginated"`
	RequiresCompletion bool       `json:"requires_completion"`
	Questions          []Question `json:"questions"`
}

// QuestionnaireUpdate carries partial questionnaire changes.
type QuestionnaireUpdate struct {
	Title              *string `json:"title,omitempty"`
	Description        *string `json:"description,omitempty"`
	Type               *string `json:"type,omitempty"`
	IsPaginated        *bool   `json:"is_paginated,omitempty"`
	RequiresCompletion *bool   `json:"requires_completion,omitempty"`
}

// ClientQuestionnaire is the client-facing listing entry, carrying the
// caller's completion state.
type ClientQuestionnaire struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	HasResponse bool   `json:"has_response"`
	IsCompleted bool   `json:"is_completed"`
	LastUpdated string `json:"last_updated,omitempty"`
}

// StartResponse is returned when a client begins filling in a
// questionnaire.
type StartResponse struct {
	ResponseID int    `json:"response_id"`
	Message    string `json:"message"`
}

// AnswerSubmit is one answer to one question within a started response.
type AnswerSubmit struct {
	Answer             map[string]interface{} `json:"answer"`
	InteractionBatchID *int                   `json:"interaction_batch_id,omitempty"`
}

// SubmitResult acknowledges a stored answer.
type SubmitResult struct {
	Message string `json:"message"`
	Saved   bool   `json:"saved"`
}

// Processor is an LLM post-processing configuration applied to
// questionnaire answers.
type Processor struct {
	ID                 int    `json:"id"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	PromptTemplate     string `json:"prompt_template"`
	PostProcessingCode string `json:"post_processing_code,omitempty"`
	Interpreter        string `json:"interpreter"` // python, javascript, none
	Status             string `json:"status"`      // active, inactive, testing
	CreatedAt          string `json:"created_at,omitempty"`
	UpdatedAt          string `json:"updated_at,omitempty"`
	CreatedByID        int    `json:"created_by_id,omitempty"`
}

// ProcessorCreate is the authoring payload for a processor.
type ProcessorCreate struct {
	Name               string `json:"name"`
	Description        string `json:"description"`
	PromptTemplate     string `json:"prompt_template"`
	PostProcessingCode string `json:"post_processing_code,omitempty"`
	Interpreter        string `json:"interpreter,omitempty"`
	Status             string `json:"status,omitempty"`
}

// ProcessorUpdate carries partial processor changes.
type ProcessorUpdate struct {
	Name               *string `json:"name,omitempty"`
	Description        *string `json:"description,omitempty"`
	PromptTemplate     *string `json:"prompt_template,omitempty"`
	PostProcessingCode *string `json:"post_processing_code,omitempty"`
	Interpreter        *string `json:"interpreter,omitempty"`
	Status             *string `json:"status,omitempty"`
}

// ProcessorMapping assigns a processor to a questionnaire.
type ProcessorMapping struct {
	ID              int    `json:"id"`
	QuestionnaireID int    `json:"questionnaire_id"`
	ProcessorID     int    `json:"processor_id"`
	IsActive        bool   `json:"is_active"`
	CreatedAt       string `json:"created_at,omitempty"`
}

// ProcessingResult is the summary record of one processor run.
type ProcessingResult struct {
	ID                      int    `json:"id"`
	QuestionnaireResponseID int    `json:"questionnaire_response_id"`
	ProcessorID             int    `json:"processor_id"`
	ProcessorVersion        string `json:"processor_version"`
	Status                  string `json:"status"`
	CreatedAt               string `json:"created_at"`
	UpdatedAt               string `json:"updated_at"`
	ErrorMessage            string `json:"error_message,omitempty"`
}

// ProcessingResultDetail adds the raw and post-processed outputs.
type ProcessingResultDetail struct {
	ProcessingResult
	RawOutput       string                 `json:"raw_output"`
	ProcessedOutput map[string]interface{} `json:"processed_output,omitempty"`
}

// Event is one captured UI interaction.
type Event struct {
	Type      string                 `json:"type"`
	Timestamp string                 `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// InteractionBatch is a batch of interaction events submitted for
// background processing.
type InteractionBatch struct {
	UserID int     `json:"user_id"`
	Events []Event `json:"events"`
}

// InteractionBatchResult acknowledges an accepted batch.
type InteractionBatchResult struct {
	BatchID int    `json:"batch_id"`
	TaskID  string `json:"task_id"`
	Message string `json:"message"`
}

// MessageResponse is the backend's generic acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// IDResponse acknowledges a created resource.
type IDResponse struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
}
