package excel

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"shotlens/domain/core"
	"shotlens/domain/court"
	"shotlens/ports"
)

// B.League periods run 10 minutes.
const periodSeconds = 600

// Required workbook columns; a missing one fails the whole batch.
var requiredColumns = []string{
	colAction1, colGameID, colPeriod, colClock, colX, colY, colSide, colPlayerID, colPlayerName,
}

const (
	colAction1    = "アクション1"
	colAction2    = "アクション2"
	colGameID     = "試合ID"
	colPeriod     = "ピリオド"
	colClock      = "ピリオド残時間"
	colX          = "X座標"
	colY          = "Y座標"
	colSide       = "サイド"
	colPlayerID   = "選手ID1"
	colPlayerName = "選手名1"
	colTeamName   = "チーム名"
)

// Sheet names one season sheet in the workbook.
type Sheet struct {
	Name   string `koanf:"name"`
	Season string `koanf:"season"`
}

// Config locates the workbook and scopes it to one team.
type Config struct {
	FilePath   string  `koanf:"file_path"`
	TeamFilter string  `koanf:"team_filter"`
	Sheets     []Sheet `koanf:"sheets"`
}

// Source reads shot events from the workbook. Parsed sheets are cached; the
// workbook is treated as immutable for the process lifetime.
type Source struct {
	cfg Config

	mu    sync.Mutex
	cache map[string][]parsedRow
}

// NewSource creates a workbook-backed event source.
func NewSource(cfg Config) *Source {
	return &Source{cfg: cfg, cache: make(map[string][]parsedRow)}
}

// PeriodSeconds returns the B.League period length.
func (s *Source) PeriodSeconds() int { return periodSeconds }

// parsedRow is one retained shot row before cohort grouping.
type parsedRow struct {
	event      court.ShotEvent
	playerName string
}

// SeasonShots loads every configured season sheet, concurrently, in
// configured order.
func (s *Source) SeasonShots(ctx context.Context) ([]ports.SeasonShots, error) {
	out := make([]ports.SeasonShots, len(s.cfg.Sheets))
	g, ctx := errgroup.WithContext(ctx)
	for i, sheet := range s.cfg.Sheets {
		g.Go(func() error {
			rows, err := s.sheetRows(ctx, sheet.Name)
			if err != nil {
				return err
			}
			events := make([]court.ShotEvent, len(rows))
			for j, r := range rows {
				events[j] = r.event
			}
			out[i] = ports.SeasonShots{Season: sheet.Season, Events: events}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// PlayerShots merges all season sheets and groups events by player, keeping
// the requested player order. Players with no events still get an entry; a
// zero-event cohort is a valid outcome.
func (s *Source) PlayerShots(ctx context.Context, playerIDs []int64) ([]ports.PlayerShots, error) {
	rows, err := s.allRows(ctx)
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

// Players lists players seen in the workbook with their distinct game
// counts, most active first.
func (s *Source) Players(ctx context.Context) ([]ports.EntityInfo, error) {
	rows, err := s.allRows(ctx)
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

func (s *Source) allRows(ctx context.Context) ([]parsedRow, error) {
	var all []parsedRow
	for _, sheet := range s.cfg.Sheets {
		rows, err := s.sheetRows(ctx, sheet.Name)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
	}
	return all, nil
}

func (s *Source) sheetRows(ctx context.Context, sheet string) ([]parsedRow, error) {
	s.mu.Lock()
	cached, ok := s.cache[sheet]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(s.cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", s.cfg.FilePath, err)
	}
	defer f.Close()

	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(raw) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	cols, err := headerIndex(raw[0])
	if err != nil {
		return nil, err
	}

	rows := make([]parsedRow, 0, len(raw)-1)
	skipped := 0
	for _, record := range raw[1:] {
		row, keep, err := s.parseRow(cols, record)
		if err != nil {
			return nil, err
		}
		if !keep {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	log.Printf("[ExcelSource] sheet %q: %d shot rows retained, %d rows filtered", sheet, len(rows), skipped)

	s.mu.Lock()
	s.cache[sheet] = rows
	s.mu.Unlock()
	return rows, nil
}

// headerIndex maps column names to positions, verifying the required set.
func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, core.NewMissingFieldError(name)
		}
	}
	return cols, nil
}

// parseRow converts one sheet row into a canonical-frame shot event. keep is
// false for rows the source legitimately filters: non-shot actions, other
// teams, missing coordinates, back-court shots, excluded action types and
// overtime periods.
func (s *Source) parseRow(cols map[string]int, record []string) (parsedRow, bool, error) {
	cell := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	action1, err := strconv.Atoi(cell(colAction1))
	if err != nil || !shotActionIDs[action1] {
		return parsedRow{}, false, nil
	}
	if s.cfg.TeamFilter != "" {
		if team := cell(colTeamName); team != "" && !strings.Contains(team, s.cfg.TeamFilter) {
			return parsedRow{}, false, nil
		}
	}

	xRaw, yRaw := cell(colX), cell(colY)
	if xRaw == "" || yRaw == "" {
		return parsedRow{}, false, nil
	}
	x, err := strconv.ParseFloat(xRaw, 64)
	if err != nil {
		return parsedRow{}, false, fmt.Errorf("%w: %s=%q", core.ErrInvalidEvent, colX, xRaw)
	}
	y, err := strconv.ParseFloat(yRaw, 64)
	if err != nil {
		return parsedRow{}, false, fmt.Errorf("%w: %s=%q", core.ErrInvalidEvent, colY, yRaw)
	}

	gameID, err := strconv.ParseInt(cell(colGameID), 10, 64)
	if err != nil {
		return parsedRow{}, false, fmt.Errorf("%w: %s=%q", core.ErrInvalidEvent, colGameID, cell(colGameID))
	}
	period, err := strconv.Atoi(cell(colPeriod))
	if err != nil {
		return parsedRow{}, false, fmt.Errorf("%w: %s=%q", core.ErrInvalidEvent, colPeriod, cell(colPeriod))
	}
	if period > court.RegulationPeriods {
		return parsedRow{}, false, nil
	}

	if a2 := cell(colAction2); a2 != "" {
		if id, err := strconv.Atoi(a2); err == nil && excludedAction2IDs[id] {
			return parsedRow{}, false, nil
		}
	}

	courtX, courtY, inFront := normalizeCoordinates(x, y, cell(colSide))
	if !inFront {
		return parsedRow{}, false, nil
	}

	playerID, err := strconv.ParseInt(cell(colPlayerID), 10, 64)
	if err != nil {
		return parsedRow{}, false, fmt.Errorf("%w: %s=%q", core.ErrInvalidEvent, colPlayerID, cell(colPlayerID))
	}

	three := threePointActionIDs[action1]
	pointValue := 2
	shotType := "2PT Field Goal"
	if three {
		pointValue = 3
		shotType = "3PT Field Goal"
	}

	action2, action2Err := strconv.Atoi(cell(colAction2))

	return parsedRow{
		event: court.ShotEvent{
			GameID:       gameID,
			EntityID:     playerID,
			Period:       period,
			RemainingSec: parseClock(cell(colClock)),
			X:            courtX,
			Y:            courtY,
			Made:         madeActionIDs[action1],
			PointValue:   pointValue,
			ActionType:   actionTypeName(action2, action2Err == nil),
			ShotType:     shotType,
		},
		playerName: cell(colPlayerName),
	}, true, nil
}

// normalizeCoordinates maps the workbook's full-court 0-100 frame into the
// canonical half-court frame. Teams attacking the right basket have both
// axes flipped so every shot faces the same basket; shots released behind
// the half-court line are discarded.
func normalizeCoordinates(x, y float64, side string) (courtX, courtY float64, inFront bool) {
	if side == "right" {
		x = 100 - x
		y = 100 - y
	}
	if x > 50 {
		return 0, 0, false
	}
	// Length axis 0-50 spans basket to half-court, lateral axis 0-100 spans
	// sideline to sideline.
	courtX = (y - 50) * 5
	courtY = x*9.4 + court.CourtMinY
	return courtX, courtY, true
}

// parseClock reads a "mm:ss" period-remaining stamp; malformed stamps count
// as zero seconds remaining.
func parseClock(clock string) int {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0
	}
	return minutes*60 + seconds
}
