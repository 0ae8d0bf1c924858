package firmware_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mavesp8266/prebuild/internal/firmware"
)

func TestName(t *testing.T) {
	tests := []struct {
		board   string
		version string
		want    string
	}{
		{board: "esp01m", version: "1.2.2", want: "mavesp-esp01m-1.2.2"},
		{board: "esp12e", version: "2.0.0", want: "mavesp-esp12e-2.0.0"},
		{board: "d1_mini", version: "dev", want: "mavesp-d1_mini-dev"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := firmware.Name(tt.board, tt.version, true, firmware.NameOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "mavesp-"+tt.board+"-"+tt.version, got)
		})
	}
}

func TestNameMissingVersionPlaceholder(t *testing.T) {
	got, err := firmware.Name("esp01m", "", false, firmware.NameOptions{})
	require.NoError(t, err)
	assert.Equal(t, "mavesp-esp01m-None", got)

	parts := strings.SplitN(got, "-", 3)
	require.Len(t, parts, 3)
	assert.Equal(t, "esp01m", parts[1])

	got, err = firmware.Name("esp01m", "", false, firmware.NameOptions{
		OnMissing:   firmware.MissingPlaceholder,
		Placeholder: "unversioned",
	})
	require.NoError(t, err)
	assert.Equal(t, "mavesp-esp01m-unversioned", got)
}

func TestNameMissingVersionFail(t *testing.T) {
	_, err := firmware.Name("esp01m", "", false, firmware.NameOptions{OnMissing: firmware.MissingFail})
	assert.ErrorIs(t, err, firmware.ErrMissingVersion)

	_, err = firmware.Name("esp01m", "", false, firmware.NameOptions{OnMissing: "ignore"})
	assert.Error(t, err)
}

func TestNameEmptyButDefinedVersion(t *testing.T) {
	got, err := firmware.Name("esp01m", "", true, firmware.NameOptions{OnMissing: firmware.MissingFail})
	require.NoError(t, err)
	assert.Equal(t, "mavesp-esp01m-", got)
}

func TestNameReplaceDots(t *testing.T) {
	got, err := firmware.Name("esp01m", "1.2.2", true, firmware.NameOptions{ReplaceDots: true})
	require.NoError(t, err)
	assert.Equal(t, "mavesp-esp01m-1_2_2", got)
}
