// Package csvsource loads NBA shot-detail CSV extracts as an event source.
// The rows are already in the canonical half-court frame; only time fields
// need deriving. Remote archive retrieval stays outside this service.
package csvsource

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"shotlens/domain/core"
	"shotlens/domain/court"
	"shotlens/ports"
)

// NBA periods run 12 minutes.
const periodSeconds = 720

var requiredColumns = []string{
	"GAME_ID", "PLAYER_ID", "PLAYER_NAME", "PERIOD",
	"MINUTES_REMAINING", "SECONDS_REMAINING",
	"LOC_X", "LOC_Y", "SHOT_MADE_FLAG", "SHOT_TYPE",
}

// Config locates the shot-detail extract.
type Config struct {
	FilePath string `koanf:"file_path"`
	Season   string `koanf:"season"`
}

// Source reads a shot-detail CSV once and serves grouped views of it.
type Source struct {
	cfg Config

	once sync.Once
	rows []row
	err  error
}

type row struct {
	event      court.ShotEvent
	playerName string
}

// NewSource creates a CSV-backed event source.
func NewSource(cfg Config) *Source {
	return &Source{cfg: cfg}
}

// PeriodSeconds returns the NBA period length.
func (s *Source) PeriodSeconds() int { return periodSeconds }

// PlayerShots groups the file's events by player in requested order.
func (s *Source) PlayerShots(ctx context.Context, playerIDs []int64) ([]ports.PlayerShots, error) {
	rows, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	byPlayer := make(map[int64][]court.ShotEvent)
	names := make(map[int64]string)
	for _, r := range rows {
		byPlayer[r.event.EntityID] = append(byPlayer[r.event.EntityID], r.event)
		names[r.event.EntityID] = r.playerName
	}
	out := make([]ports.PlayerShots, len(playerIDs))
	for i, pid := range playerIDs {
		out[i] = ports.PlayerShots{PlayerID: pid, Name: names[pid], Events: byPlayer[pid]}
	}
	return out, nil
}

// SeasonShots exposes the whole file as a single season cohort.
func (s *Source) SeasonShots(ctx context.Context) ([]ports.SeasonShots, error) {
	rows, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	events := make([]court.ShotEvent, len(rows))
	for i, r := range rows {
		events[i] = r.event
	}
	return []ports.SeasonShots{{Season: s.cfg.Season, Events: events}}, nil
}

// Players lists players in the file with distinct game counts, most active
// first.
func (s *Source) Players(ctx context.Context) ([]ports.EntityInfo, error) {
	rows, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	games := make(map[int64]map[int64]bool)
	names := make(map[int64]string)
	for _, r := range rows {
		if games[r.event.EntityID] == nil {
			games[r.event.EntityID] = make(map[int64]bool)
		}
		games[r.event.EntityID][r.event.GameID] = true
		names[r.event.EntityID] = r.playerName
	}
	players := make([]ports.EntityInfo, 0, len(games))
	for pid, g := range games {
		players = append(players, ports.EntityInfo{ID: pid, Name: names[pid], GameCount: len(g)})
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].GameCount != players[j].GameCount {
			return players[i].GameCount > players[j].GameCount
		}
		return players[i].ID < players[j].ID
	})
	return players, nil
}

func (s *Source) load(ctx context.Context) ([]row, error) {
	s.once.Do(func() { s.rows, s.err = readFile(s.cfg.FilePath) })
	if s.err != nil {
		return nil, s.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.rows, nil
}

func readFile(path string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shot detail %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read shot detail %s: %w", path, err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("shot detail %s is empty", path)
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, core.NewMissingFieldError(name)
		}
	}

	rows := make([]row, 0, len(records)-1)
	skipped := 0
	for _, record := range records[1:] {
		r, keep, err := parseRecord(cols, record)
		if err != nil {
			return nil, err
		}
		if !keep {
			skipped++
			continue
		}
		rows = append(rows, r)
	}
	log.Printf("[CSVSource] %s: %d shot rows retained, %d filtered", path, len(rows), skipped)
	return rows, nil
}

func parseRecord(cols map[string]int, record []string) (row, bool, error) {
	cell := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}
	intCell := func(name string) (int64, error) {
		v, err := strconv.ParseInt(cell(name), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s=%q", core.ErrInvalidEvent, name, cell(name))
		}
		return v, nil
	}

	period, err := intCell("PERIOD")
	if err != nil {
		return row{}, false, err
	}
	if period > court.RegulationPeriods {
		return row{}, false, nil
	}

	gameID, err := intCell("GAME_ID")
	if err != nil {
		return row{}, false, err
	}
	playerID, err := intCell("PLAYER_ID")
	if err != nil {
		return row{}, false, err
	}
	minutes, err := intCell("MINUTES_REMAINING")
	if err != nil {
		return row{}, false, err
	}
	seconds, err := intCell("SECONDS_REMAINING")
	if err != nil {
		return row{}, false, err
	}
	made, err := intCell("SHOT_MADE_FLAG")
	if err != nil {
		return row{}, false, err
	}
	x, err := strconv.ParseFloat(cell("LOC_X"), 64)
	if err != nil {
		return row{}, false, fmt.Errorf("%w: LOC_X=%q", core.ErrInvalidEvent, cell("LOC_X"))
	}
	y, err := strconv.ParseFloat(cell("LOC_Y"), 64)
	if err != nil {
		return row{}, false, fmt.Errorf("%w: LOC_Y=%q", core.ErrInvalidEvent, cell("LOC_Y"))
	}

	shotType := cell("SHOT_TYPE")
	pointValue := 2
	if strings.Contains(shotType, "3PT") {
		pointValue = 3
	}

	return row{
		event: court.ShotEvent{
			GameID:       gameID,
			EntityID:     playerID,
			Period:       int(period),
			RemainingSec: int(minutes*60 + seconds),
			X:            x,
			Y:            y,
			Made:         made == 1,
			PointValue:   pointValue,
			ActionType:   cell("ACTION_TYPE"),
			ShotType:     shotType,
		},
		playerName: cell("PLAYER_NAME"),
	}, true, nil
}
