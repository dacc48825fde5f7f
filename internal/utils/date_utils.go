package utils

import "time"

// GetBrasilLocation retorna a localização de São Paulo (UTC-3)
// Esta função deve ser usada em todo o projeto para obter o fuso horário padrão
// brasileiro, garantindo que janelas de validade de pesquisa sejam comparadas
// no mesmo fuso em que as empresas as configuram.
func GetBrasilLocation() *time.Location {
	brazilLocation, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		// Fallback para UTC-3 se não conseguir carregar a localização
		brazilLocation = time.FixedZone("BRT", -3*60*60)
	}
	return brazilLocation
}

// ParseFlexibleDate converte uma string de data nos formatos aceitos pela API
// (ISO8601 com timezone, data simples ou data e hora sem timezone).
func ParseFlexibleDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.RFC3339, dateStr)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse("2006-01-02", dateStr)
	if err == nil {
		// Início do dia no fuso padrão
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, GetBrasilLocation()), nil
	}

	t, err = time.Parse("2006-01-02T15:04:05", dateStr)
	if err == nil {
		return t, nil
	}

	return time.Time{}, err
}
