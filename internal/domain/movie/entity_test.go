package movie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMovie(t *testing.T) {
	m := NewMovie("七人の侍", 207)

	require.NotNil(t, m)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "七人の侍", m.Title)
	assert.Equal(t, 207, m.DurationMinutes)
	assert.False(t, m.CreatedAt.IsZero())
}

func TestMovie_Validate(t *testing.T) {
	tests := []struct {
		name            string
		title           string
		durationMinutes int
		wantErr         bool
		errExpected     error
	}{
		{
			name: "正常な映画", title: "生きる", durationMinutes: 143,
			wantErr: false,
		},
		{
			name: "タイトル未指定", title: "", durationMinutes: 143,
			wantErr: true, errExpected: ErrTitleRequired,
		},
		{
			name: "上映時間が0", title: "生きる", durationMinutes: 0,
			wantErr: true, errExpected: ErrInvalidDuration,
		},
		{
			name: "上映時間が負", title: "生きる", durationMinutes: -1,
			wantErr: true, errExpected: ErrInvalidDuration,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMovie(tt.title, tt.durationMinutes)
			err := m.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, tt.errExpected)
				return
			}
			require.NoError(t, err)
		})
	}
}
