package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTaxonomyOrder(t *testing.T) {
	tax := DefaultTaxonomy()
	require.Len(t, tax, 7)

	expected := []Status{
		StatusIniciado,
		StatusColeta,
		StatusExecucao,
		StatusAprovacao,
		StatusProtocolado,
		StatusConcluido,
		StatusEncerrado,
	}
	assert.Equal(t, expected, []Status(tax))
}

func TestResolveNormalizesSpacing(t *testing.T) {
	tax := DefaultTaxonomy()

	underscored, ok := tax.Resolve("Coleta_de_Informações")
	require.True(t, ok)

	spaced, ok := tax.Resolve("Coleta de Informações")
	require.True(t, ok)

	assert.Equal(t, underscored, spaced)
	assert.Equal(t, StatusColeta, spaced)
}

func TestResolveExactValues(t *testing.T) {
	tax := DefaultTaxonomy()
	for _, s := range tax {
		got, ok := tax.Resolve(string(s))
		require.True(t, ok, "status %q must resolve", s)
		assert.Equal(t, s, got)
	}
}

func TestResolveUnknownStatus(t *testing.T) {
	tax := DefaultTaxonomy()

	_, ok := tax.Resolve("Cancelado")
	assert.False(t, ok)

	_, ok = tax.Resolve("")
	assert.False(t, ok)
}

func TestResolveTrimsWhitespace(t *testing.T) {
	tax := DefaultTaxonomy()
	got, ok := tax.Resolve("  Iniciado ")
	require.True(t, ok)
	assert.Equal(t, StatusIniciado, got)
}
