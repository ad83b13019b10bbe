package types

import "time"

// JobApplicationStatus tracks where an application stands.
type JobApplicationStatus string

// Application statuses.
const (
	AppApplied       JobApplicationStatus = "Applied"
	AppInterviewing  JobApplicationStatus = "Interviewing"
	AppOfferReceived JobApplicationStatus = "Offer Received"
	AppRejected      JobApplicationStatus = "Rejected"
	AppWithdrawn     JobApplicationStatus = "Withdrawn"
	AppAccepted      JobApplicationStatus = "Accepted"
)

// Pending reports whether the application still awaits an outcome.
func (s JobApplicationStatus) Pending() bool {
	return s == AppApplied || s == AppInterviewing
}

// JobApplication is stored under EntityApplication. FollowUpDate is nil
// when no follow-up is planned.
type JobApplication struct {
	ID               string               `json:"id"`
	JobTitle         string               `json:"jobTitle"`
	Company          string               `json:"company"`
	ApplicationDate  string               `json:"applicationDate"`
	Status           JobApplicationStatus `json:"status"`
	Notes            string               `json:"notes"`
	JobDescription   string               `json:"jobDescription"`
	ResumeUsed       string               `json:"resumeUsed"`
	CoverLetterUsed  string               `json:"coverLetterUsed,omitempty"`
	InterviewDates   []string             `json:"interviewDates"`
	FeedbackReceived string               `json:"feedbackReceived"`
	FollowUpDate     *string              `json:"followUpDate"`
	CreatedAt        time.Time            `json:"createdAt"`
	LastUpdated      time.Time            `json:"lastUpdated"`
	Signature        string               `json:"signature,omitempty"`
	Nonce            string               `json:"nonce,omitempty"`
}

// RecordID implements Record.
func (a JobApplication) RecordID() string { return a.ID }
