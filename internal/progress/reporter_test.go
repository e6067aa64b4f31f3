package progress

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCIReporterThrottles(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Out: &buf, Every: 10}
	r.Start(30)
	tick := Ticks(r, func() float64 { return 0.5 })
	for i := 1; i <= 30; i++ {
		tick(i)
	}
	r.Finish()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 5)
	assert.Equal(t, "[10/30] alpha 0.500", lines[1])
	assert.Equal(t, "Layout settled", lines[4])
}
