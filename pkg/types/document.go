package types

import "time"

const MIMETypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// DocumentBuffer is a finished binary document. The caller owns Data once returned.
type DocumentBuffer struct {
	Data     []byte
	MIMEType string
	FileName string
}

func (d *DocumentBuffer) Len() int {
	return len(d.Data)
}

// GeneratedDocument records a document uploaded for a submission
type GeneratedDocument struct {
	ID            string    `db:"id" json:"id"`
	SubmissionID  string    `db:"submission_id" json:"submissionId"`
	ClaimType     ClaimType `db:"claim_type" json:"claimType"`
	FileName      string    `db:"file_name" json:"fileName"`
	FileSizeBytes int64     `db:"file_size_bytes" json:"fileSizeBytes"`
	MimeType      string    `db:"mime_type" json:"mimeType"`
	StorageKey    string    `db:"storage_key" json:"storageKey"`
	GeneratedAt   time.Time `db:"generated_at" json:"generatedAt"`
}

// SubmissionRow is the persisted form of a Submission; the full record lives in Payload.
type SubmissionRow struct {
	ID             string    `db:"id" store:"immutable"`
	ApplicantName  string    `db:"applicant_name"`
	ApplicantID    string    `db:"applicant_id_number"`
	SelectedClaims []string  `db:"selected_claims"`
	Payload        []byte    `db:"payload"` // jsonb
	SubmittedAt    time.Time `db:"submitted_at"`
	CreatedAt      time.Time `db:"created_at" store:"immutable"`
}
