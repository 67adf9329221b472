package report

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecord struct {
	ID     uint
	Status string
	Valor  *decimal.Decimal
}

func dec(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func groupFakes(records []fakeRecord) Aggregate[fakeRecord] {
	return GroupByStatus(DefaultTaxonomy(), records,
		func(r fakeRecord) string { return r.Status },
		func(r fakeRecord) *decimal.Decimal { return r.Valor })
}

func TestGroupByStatusScenario(t *testing.T) {
	// A(Iniciado, 100), B(Execucao, nil), C(Encerrado, 50)
	agg := groupFakes([]fakeRecord{
		{ID: 1, Status: "Iniciado", Valor: dec("100")},
		{ID: 2, Status: "Execucao", Valor: nil},
		{ID: 3, Status: "Encerrado", Valor: dec("50")},
	})

	require.Len(t, agg.Groups, 7)

	nonEmpty := 0
	for _, g := range agg.Groups {
		if g.Count > 0 {
			nonEmpty++
			assert.Equal(t, 1, g.Count)
		}
	}
	assert.Equal(t, 3, nonEmpty)
	assert.Equal(t, 3, agg.TotalCount)
	assert.Equal(t, 3, agg.GroupedCount)
	assert.True(t, agg.GrandTotal.Equal(decimal.RequireFromString("150")),
		"grand total = %s", agg.GrandTotal)
}

func TestGroupByStatusKeepsTaxonomyOrder(t *testing.T) {
	agg := groupFakes([]fakeRecord{
		{ID: 1, Status: "Encerrado"},
		{ID: 2, Status: "Iniciado"},
	})

	keys := make([]Status, len(agg.Groups))
	for i, g := range agg.Groups {
		keys[i] = g.Key
	}
	assert.Equal(t, []Status(DefaultTaxonomy()), keys)
}

func TestGroupByStatusUnresolvedDroppedFromGroupsOnly(t *testing.T) {
	agg := groupFakes([]fakeRecord{
		{ID: 1, Status: "Iniciado", Valor: dec("10")},
		{ID: 2, Status: "Status_Antigo", Valor: dec("90")},
	})

	assert.Equal(t, 2, agg.TotalCount)
	assert.Equal(t, 1, agg.GroupedCount)
	// The unresolved record still contributes to the overall total.
	assert.True(t, agg.GrandTotal.Equal(decimal.RequireFromString("100")))

	grouped := 0
	for _, g := range agg.Groups {
		grouped += g.Count
	}
	assert.Equal(t, 1, grouped)
}

func TestGroupByStatusSpacingVariantsShareABucket(t *testing.T) {
	agg := groupFakes([]fakeRecord{
		{ID: 1, Status: "Coleta_de_Informações", Valor: dec("5")},
		{ID: 2, Status: "Coleta de Informações", Valor: dec("7")},
	})

	for _, g := range agg.Groups {
		if g.Key == StatusColeta {
			assert.Equal(t, 2, g.Count)
			assert.True(t, g.Total.Equal(decimal.RequireFromString("12")))
			return
		}
	}
	t.Fatal("coleta bucket not found")
}

func TestGroupByStatusPreservesFetchOrder(t *testing.T) {
	agg := groupFakes([]fakeRecord{
		{ID: 9, Status: "Iniciado"},
		{ID: 5, Status: "Iniciado"},
		{ID: 1, Status: "Iniciado"},
	})

	g := agg.Groups[0]
	require.Equal(t, StatusIniciado, g.Key)
	require.Len(t, g.Records, 3)
	assert.Equal(t, uint(9), g.Records[0].ID)
	assert.Equal(t, uint(5), g.Records[1].ID)
	assert.Equal(t, uint(1), g.Records[2].ID)
}

func TestGroupByStatusCountInvariantRandomized(t *testing.T) {
	// Sum of per-group counts must equal the number of records whose
	// status resolves, for arbitrary inputs.
	rng := rand.New(rand.NewSource(1))
	statuses := []string{
		"Iniciado", "Execucao", "Encerrado", "Concluído",
		"Coleta de Informações", "Desconhecido", "???",
	}
	tax := DefaultTaxonomy()

	for trial := 0; trial < 50; trial++ {
		n := rng.Intn(40)
		records := make([]fakeRecord, n)
		expectGrouped := 0
		expectTotal := decimal.Zero
		for i := range records {
			status := statuses[rng.Intn(len(statuses))]
			records[i] = fakeRecord{ID: uint(i + 1), Status: status}
			if tax.Contains(status) {
				expectGrouped++
			}
			if rng.Intn(3) > 0 {
				v := decimal.NewFromInt(int64(rng.Intn(10_000))).Div(decimal.NewFromInt(100))
				records[i].Valor = &v
				expectTotal = expectTotal.Add(v)
			}
		}

		agg := groupFakes(records)
		grouped := 0
		for _, g := range agg.Groups {
			grouped += g.Count
		}
		require.Equal(t, expectGrouped, grouped)
		require.Equal(t, n, agg.TotalCount)
		require.True(t, agg.GrandTotal.Equal(expectTotal),
			"trial %d: got %s want %s", trial, agg.GrandTotal, expectTotal)
	}
}

func TestGroupByStatusIdempotent(t *testing.T) {
	records := []fakeRecord{
		{ID: 1, Status: "Iniciado", Valor: dec("10.10")},
		{ID: 2, Status: "Execucao"},
		{ID: 3, Status: "Protocolado", Valor: dec("0.90")},
	}

	first := groupFakes(records)
	second := groupFakes(records)
	assert.Equal(t, first, second)
}

func TestSumAmounts(t *testing.T) {
	total := SumAmounts([]fakeRecord{
		{Valor: dec("0.10")},
		{Valor: nil},
		{Valor: dec("0.20")},
	}, func(r fakeRecord) *decimal.Decimal { return r.Valor })

	// Decimal accumulation has no binary floating-point drift.
	assert.True(t, total.Equal(decimal.RequireFromString("0.30")))
}
