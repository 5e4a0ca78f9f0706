// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		from    string
		to      string
		want    string
		wantErr bool
	}{
		{
			name:  "no dates passes query through",
			query: "cancer vaccine",
			want:  "cancer vaccine",
		},
		{
			name:  "full range",
			query: "cancer vaccine",
			from:  "2020/01/01",
			to:    "2023/12/31",
			want:  `(cancer vaccine) AND ("2020/01/01"[Date - Publication] : "2023/12/31"[Date - Publication])`,
		},
		{
			name:  "open-ended from",
			query: "crispr",
			from:  "2022",
			want:  `(crispr) AND ("2022"[Date - Publication] : "3000/12/31"[Date - Publication])`,
		},
		{
			name:  "open-ended to",
			query: "crispr",
			to:    "2020/06",
			want:  `(crispr) AND ("1000/01/01"[Date - Publication] : "2020/06"[Date - Publication])`,
		},
		{
			name:    "bad date",
			query:   "crispr",
			from:    "last tuesday",
			wantErr: true,
		},
		{
			name:    "iso dashes rejected",
			query:   "crispr",
			from:    "2020-01-01",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildQuery(tt.query, tt.from, tt.to)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid date")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSecretDefault(t *testing.T) {
	loadedSecrets = map[string]string{"ncbi-api-key": "nk_from_file"}
	t.Cleanup(func() { loadedSecrets = nil })

	assert.Equal(t, "explicit", secretDefault("ncbi-api-key", "explicit"))
	assert.Equal(t, "nk_from_file", secretDefault("ncbi-api-key", ""))
	assert.Equal(t, "", secretDefault("missing-key", ""))
}
