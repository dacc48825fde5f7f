package entities

import (
	"fmt"

	"github.com/opinamais/opina-api/pkg/apperr"
)

// normalizeReferencePair garante que os dois nomes de coluna de uma mesma
// referência (nome atual em inglês e nome legado em português) estejam sempre
// preenchidos e iguais antes de qualquer escrita no banco.
//
// Regras: se apenas um lado estiver preenchido, o outro é copiado; se nenhum
// estiver, a escrita é rejeitada; se ambos estiverem preenchidos mas divergirem,
// o registro é tratado como corrompido e rejeitado. O sistema de origem confiava
// silenciosamente no lado preenchido — aqui a divergência é erro (ver DESIGN.md).
func normalizeReferencePair(current, legacy *string, name string) error {
	switch {
	case *current == "" && *legacy == "":
		return apperr.NewValidation(fmt.Sprintf("referência de %s ausente nas duas colunas", name))
	case *current == "":
		*current = *legacy
	case *legacy == "":
		*legacy = *current
	case *current != *legacy:
		return apperr.NewValidation(fmt.Sprintf("referências de %s divergentes (%q != %q)", name, *current, *legacy))
	}
	return nil
}
