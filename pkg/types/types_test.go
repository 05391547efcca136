// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegulationKeepsExtraFields(t *testing.T) {
	src := `{
		"id": "GDPR",
		"name": "General Data Protection Regulation",
		"effective_date": "2018-05-25",
		"penalties": {"max_percent": 4},
		"articles": [{"article": "5", "title": "Principles", "paragraphs": 2}]
	}`

	var reg Regulation
	require.NoError(t, json.Unmarshal([]byte(src), &reg))
	assert.Equal(t, "GDPR", reg.ID)
	require.Contains(t, reg.Extra, "effective_date")
	require.Contains(t, reg.Extra, "penalties")
	require.Len(t, reg.Articles, 1)
	assert.Contains(t, reg.Articles[0].Extra, "paragraphs")

	out, err := json.Marshal(reg)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "GDPR",
		"name": "General Data Protection Regulation",
		"effective_date": "2018-05-25",
		"penalties": {"max_percent": 4},
		"articles": [{"article": "5", "title": "Principles", "paragraphs": 2}]
	}`, string(out))
}

func TestRegulationRejectsBadInput(t *testing.T) {
	for name, src := range map[string]string{
		"not an object":  `[1, 2]`,
		"numeric id":     `{"id": 5}`,
		"null id":        `{"id": null}`,
		"malformed JSON": `{"id": `,
	} {
		t.Run(name, func(t *testing.T) {
			var reg Regulation
			assert.Error(t, json.Unmarshal([]byte(src), &reg))
		})
	}
}

func TestRegulationAcceptsUnexpectedTypes(t *testing.T) {
	src := `{
		"id": "x",
		"name": 3,
		"risk_category": {"level": "high"},
		"articles": [{"article": true, "title": "T"}, 12],
		"developer_guidance": "one"
	}`

	var reg Regulation
	require.NoError(t, json.Unmarshal([]byte(src), &reg))
	assert.Empty(t, reg.Name)
	assert.Empty(t, reg.RiskCategory)
	assert.Nil(t, reg.DeveloperGuidance)
	require.Len(t, reg.Articles, 2)
	assert.Equal(t, "N/A", reg.Articles[0].Label())
	assert.Equal(t, "T", reg.Articles[0].Title)

	out, err := json.Marshal(reg)
	require.NoError(t, err)
	assert.JSONEq(t, src, string(out))
}

func TestRegulationRoundTrip(t *testing.T) {
	src := `{"id":"x","name":"","summary":null,"risk_category":"","articles":[{"article":"1","title":"","notes":""}],"zeta":1,"alpha":[]}`

	var reg Regulation
	require.NoError(t, json.Unmarshal([]byte(src), &reg))

	out, err := json.Marshal(reg)
	require.NoError(t, err)
	assert.Equal(t, src, string(out))
}

func TestRegulationBuiltInCode(t *testing.T) {
	reg := Regulation{
		ID:    "x",
		Name:  "X",
		Extra: map[string]json.RawMessage{"owner": json.RawMessage(`"dpo"`), "name": json.RawMessage(`"shadow"`)},
	}
	out, err := json.Marshal(reg)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"x","name":"X","owner":"dpo"}`, string(out))
}

func TestArticleNumber(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		num   string
		label string
		out   string
	}{
		{"string", `{"article": "164.312", "title": "T"}`, "164.312", "164.312", `{"article": "164.312", "title": "T"}`},
		{"number", `{"article": 17, "title": "T"}`, "17", "17", `{"article": 17, "title": "T"}`},
		{"missing", `{"title": "T"}`, "", "N/A", `{"title": "T"}`},
		{"null", `{"article": null, "title": "T"}`, "", "N/A", `{"article": null, "title": "T"}`},
		{"not a number", `{"article": {"n": 1}}`, "", "N/A", `{"article": {"n": 1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Article
			require.NoError(t, json.Unmarshal([]byte(tt.src), &a))
			assert.Equal(t, tt.num, a.Number)
			assert.Equal(t, tt.label, a.Label())

			out, err := json.Marshal(a)
			require.NoError(t, err)
			assert.JSONEq(t, tt.out, string(out))
		})
	}
}

func TestArticleNumberEditedAfterLoad(t *testing.T) {
	var a Article
	require.NoError(t, json.Unmarshal([]byte(`{"article": 17}`), &a))
	a.Number = "17a"

	out, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"article": "17a"}`, string(out))
}

func TestRegion(t *testing.T) {
	var r Region
	require.NoError(t, json.Unmarshal([]byte(`{"id":"eu","name":"European Union","regulations":["gdpr"],"currency":"EUR"}`), &r))
	assert.Equal(t, []string{"gdpr"}, r.RegulationIDs)
	assert.Contains(t, r.Extra, "currency")

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"eu","name":"European Union","regulations":["gdpr"],"currency":"EUR"}`, string(out))
}

func TestRegionKeepsKeyOrder(t *testing.T) {
	src := `{"notes":"","regulations":["gdpr",null],"id":"eu","name":null}`
	var r Region
	require.NoError(t, json.Unmarshal([]byte(src), &r))
	assert.Equal(t, []string{"gdpr"}, r.RegulationIDs)
	assert.True(t, r.HasID())

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, src, string(out))
}

func TestHasID(t *testing.T) {
	var reg Regulation
	require.NoError(t, json.Unmarshal([]byte(`{"id": ""}`), &reg))
	assert.True(t, reg.HasID())

	require.NoError(t, json.Unmarshal([]byte(`{"name": "n"}`), &reg))
	assert.False(t, reg.HasID())

	assert.True(t, Regulation{ID: "x"}.HasID())
}

func TestResolvedRegion(t *testing.T) {
	t.Run("empty regulations are written as a list", func(t *testing.T) {
		rr := ResolvedRegion{Region: Region{ID: "eu", RegulationIDs: []string{"gdpr"}}}
		out, err := json.Marshal(rr)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"eu","regulations":[]}`, string(out))
	})

	t.Run("round trip", func(t *testing.T) {
		src := `{"id":"eu","name":"European Union","currency":"EUR","regulations":[{"id":"gdpr","name":"GDPR"}]}`
		var rr ResolvedRegion
		require.NoError(t, json.Unmarshal([]byte(src), &rr))
		assert.Equal(t, "eu", rr.ID)
		assert.Nil(t, rr.RegulationIDs)
		require.Len(t, rr.Regulations, 1)
		assert.Equal(t, "GDPR", rr.Regulations[0].Name)

		out, err := json.Marshal(rr)
		require.NoError(t, err)
		assert.JSONEq(t, src, string(out))
	})
}

func TestMatchTypePriority(t *testing.T) {
	assert.Equal(t, 0, MatchName.Priority())
	assert.Equal(t, 1, MatchSummary.Priority())
	assert.Equal(t, 2, MatchArticleTitle.Priority())
	assert.Equal(t, 2, MatchArticleSummary.Priority())
	assert.Equal(t, 3, MatchDeveloperGuidance.Priority())
}

func TestDefaultServerConfig(t *testing.T) {
	cfg := DefaultServerConfig()
	assert.Equal(t, TransportStdio, cfg.Transport)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Positive(t, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.DataDir)
}
