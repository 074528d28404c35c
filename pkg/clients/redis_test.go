package clients

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "ledger:appData", Key("appData"))
	assert.Equal(t, "ledger:shop:appData", Key("shop", " ", "appData"))
	assert.Equal(t, "ledger", Key())
}
