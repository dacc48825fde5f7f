package migrations

import (
	"log"

	"gorm.io/gorm"
)

// BackfillLegacyReferences preenche as colunas de referência legadas
// (pesquisa_id, empresa_id) a partir das colunas atuais, e vice-versa, para
// registros gravados antes da guarda de consistência existir. Registros com os
// dois lados preenchidos e divergentes são apenas reportados; a correção é manual.
func BackfillLegacyReferences(db *gorm.DB) error {
	statements := []string{
		"UPDATE access_tokens SET pesquisa_id = survey_id WHERE (pesquisa_id IS NULL OR pesquisa_id::text = '') AND survey_id IS NOT NULL",
		"UPDATE access_tokens SET survey_id = pesquisa_id WHERE (survey_id IS NULL OR survey_id::text = '') AND pesquisa_id IS NOT NULL",
		"UPDATE access_tokens SET empresa_id = business_id WHERE (empresa_id IS NULL OR empresa_id::text = '') AND business_id IS NOT NULL",
		"UPDATE access_tokens SET business_id = empresa_id WHERE (business_id IS NULL OR business_id::text = '') AND empresa_id IS NOT NULL",
		"UPDATE surveys SET empresa_id = business_id WHERE (empresa_id IS NULL OR empresa_id::text = '') AND business_id IS NOT NULL",
		"UPDATE surveys SET business_id = empresa_id WHERE (business_id IS NULL OR business_id::text = '') AND empresa_id IS NOT NULL",
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	// Divergências restantes indicam registros corrompidos na origem
	var divergent int64
	err := db.Raw(
		"SELECT count(*) FROM access_tokens WHERE survey_id IS DISTINCT FROM pesquisa_id OR business_id IS DISTINCT FROM empresa_id",
	).Scan(&divergent).Error
	if err != nil {
		return err
	}
	if divergent > 0 {
		log.Printf("⚠️ %d QR codes com referências divergentes; corrija manualmente antes de confiar nas consultas legadas", divergent)
	}

	return nil
}
