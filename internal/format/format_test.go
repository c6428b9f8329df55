package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrdinal(t *testing.T) {
	tests := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th",
		13: "13th", 21: "21st", 22: "22nd", 101: "101st", 111: "111th",
	}
	for n, want := range tests {
		assert.Equal(t, want, Ordinal(n))
	}
}

func TestArticle(t *testing.T) {
	assert.Equal(t, "an", Article("8-3"))
	assert.Equal(t, "an", Article("84-80"))
	assert.Equal(t, "an", Article("18-17"))
	assert.Equal(t, "a", Article("24-17"))
	assert.Equal(t, "a", Article("110-98"))
}

func TestLinks(t *testing.T) {
	l := Links{Base: "/l/1"}
	assert.Equal(t, `<a href="/l/1/game_log/BOS_3/2025/77">win</a>`, l.Game("win", "BOS", 3, 2025, 77))
	assert.Equal(t, `<a href="/l/1/roster/BOS_3/2025">BOS</a>`, l.TeamAbbrev("BOS", 3, 2025))
	assert.Equal(t, `<a href="/l/1/player/9">Jo Smith</a>`, l.Player("Jo Smith", 9))
}
