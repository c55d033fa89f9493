package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoString(t *testing.T) {
	info := Info{ServerName: "S", DBName: "D", LoginName: "L", Version: "V", Edition: "E"}
	s := info.String()
	assert.Contains(t, s, "Server:  S")
	assert.Contains(t, s, "Database: D")
	assert.Contains(t, s, "Login:   L")
	assert.Contains(t, s, "Version: V")
	assert.Contains(t, s, "Edition: E")
}
