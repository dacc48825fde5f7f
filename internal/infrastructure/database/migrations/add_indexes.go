package migrations

import (
	"gorm.io/gorm"
)

// AddIndexes adds indexes to the database to improve query performance
func AddIndexes(db *gorm.DB) error {
	// Access tokens: code lookup is the entry point of every scan
	if err := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_access_tokens_code ON access_tokens (code)").Error; err != nil {
		return err
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_access_tokens_survey_id ON access_tokens (survey_id)").Error; err != nil {
		return err
	}

	// Surveys listed per business on the admin panel
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_surveys_business_id ON surveys (business_id)").Error; err != nil {
		return err
	}

	// Responses: the indexed attribution lookup used by balance recompute
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_responses_customer_id ON responses (customer_id)").Error; err != nil {
		return err
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_responses_survey_id ON responses (survey_id)").Error; err != nil {
		return err
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_responses_approval_state ON responses (approval_state)").Error; err != nil {
		return err
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_responses_customer_approval ON responses (customer_id, approval_state)").Error; err != nil {
		return err
	}

	return nil
}
