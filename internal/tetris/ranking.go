package tetris

import (
	"sync"
	"time"
)

// RankingEntry is one finished session
type RankingEntry struct {
	SessionID string    `json:"session_id"`
	Score     int       `json:"score"`
	Level     int       `json:"level"`
	Lines     int       `json:"lines"`
	At        time.Time `json:"at"`
}

// Ranking holds the best scores of a process, highest first
type Ranking struct {
	mu      sync.Mutex
	entries []RankingEntry
	size    int
}

// NewRanking create a new ranking
func NewRanking() *Ranking {
	return &Ranking{size: rankingSize}
}

// InsertScore inserts a score into the rankings, reporting whether it placed
func (ranking *Ranking) InsertScore(entry RankingEntry) bool {
	ranking.mu.Lock()
	defer ranking.mu.Unlock()
	for index, ranked := range ranking.entries {
		if entry.Score > ranked.Score {
			ranking.slideScores(index)
			ranking.entries[index] = entry
			return true
		}
	}
	if len(ranking.entries) < ranking.size {
		ranking.entries = append(ranking.entries, entry)
		return true
	}
	return false
}

// slideScores slides the scores down to make room for a new score
func (ranking *Ranking) slideScores(index int) {
	if len(ranking.entries) < ranking.size {
		ranking.entries = append(ranking.entries, RankingEntry{})
	}
	for i := len(ranking.entries) - 1; i > index; i-- {
		ranking.entries[i] = ranking.entries[i-1]
	}
}

// Entries returns a copy of the ranking
func (ranking *Ranking) Entries() []RankingEntry {
	ranking.mu.Lock()
	defer ranking.mu.Unlock()
	return append([]RankingEntry(nil), ranking.entries...)
}

// Track records every lost session of game until the returned function is called
func (ranking *Ranking) Track(game Game) func() {
	return game.Subscribe(func(event Event) {
		if event.Type != EventLoss {
			return
		}
		ranking.InsertScore(RankingEntry{
			SessionID: event.SessionID,
			Score:     event.Score,
			Level:     event.Level,
			Lines:     event.TotalLines,
			At:        time.Now(),
		})
	})
}
