package baseline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidGoal(t *testing.T) {
	cases := []struct {
		name string
		text string
		want bool
	}{
		{"commitment and weekday anchor", "I will add 1 portion of fruit at breakfast on weekdays for the next 2 weeks.", true},
		{"contraction commitment", "I'll walk 10 minutes after lunch on Mon/Wed/Fri.", true},
		{"clock time anchor", "I will stretch at 7 am before work.", true},
		{"day name inside longer word", "I will journal every Monday night.", true},
		{"missing commitment", "Walk 10 minutes daily.", false},
		{"missing time anchor", "I will eat more vegetables.", false},
		{"willpower is not a commitment", "Willpower gets me through mornings.", false},
		{"empty", "", false},
		{"whitespace only", "   \n\t  ", false},
		{"surrounding whitespace accepted", "  I will read 5 pages every evening.  ", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidGoal(tc.text))
		})
	}
}

func TestValidGoalLengthBoundary(t *testing.T) {
	base := "I will walk daily "
	pad := strings.Repeat("x", maxGoalLength-len(base))
	atLimit := base + pad
	assert.Equal(t, maxGoalLength, len(atLimit))
	assert.True(t, ValidGoal(atLimit))
	assert.False(t, ValidGoal(atLimit+"x"))
}
