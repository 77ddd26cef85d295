// Package parser reads score workbooks (.xlsm/.xlsx) produced by the game
// hosts into the in-memory game representation. One sheet per round, team
// names in the first column, the game date on the info sheet.
package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/bezdurakov/quiz-service/internal/quizsvc/models"
)

const (
	SheetInfo    = "Инфо"
	SheetVybor   = "Выбор"
	SheetChisla  = "Числа"
	SheetPref    = "Преферанс"
	SheetPairs   = "Пары"
	SheetRazobl  = "Разоблачение"
	SheetAuction = "Аукцион"
	SheetMot     = "Истина"
)

var dateFormats = []string{"02.01.2006", "2006-01-02", "01-02-06"}

// ParseFile reads one workbook into a GameData. The result is not yet
// validated against the store; callers run Validate via the service.
func ParseFile(path string) (*models.GameData, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	return parse(f)
}

func parse(f *excelize.File) (*models.GameData, error) {
	date, err := parseDate(f)
	if err != nil {
		return nil, err
	}

	// The vybor sheet defines the team list; every other sheet must cover
	// the same teams.
	vyborRows, err := sheetRows(f, SheetVybor)
	if err != nil {
		return nil, err
	}

	game := &models.GameData{Date: date}
	for _, row := range vyborRows {
		points, err := cellDecimal(row, 1)
		if err != nil {
			return nil, fmt.Errorf("sheet %s, team %q: %w", SheetVybor, row[0], err)
		}
		game.Teams = append(game.Teams, models.TeamResult{
			Name:  row[0],
			Vybor: &models.VyborScore{Points: points},
		})
	}
	if len(game.Teams) == 0 {
		return nil, fmt.Errorf("sheet %s: no team rows", SheetVybor)
	}

	chisla, err := teamRows(f, SheetChisla, game)
	if err != nil {
		return nil, err
	}
	pref, err := teamRows(f, SheetPref, game)
	if err != nil {
		return nil, err
	}
	pairs, err := teamRows(f, SheetPairs, game)
	if err != nil {
		return nil, err
	}
	razobl, err := teamRows(f, SheetRazobl, game)
	if err != nil {
		return nil, err
	}
	auction, err := teamRows(f, SheetAuction, game)
	if err != nil {
		return nil, err
	}
	mot, err := teamRows(f, SheetMot, game)
	if err != nil {
		return nil, err
	}

	for i := range game.Teams {
		t := &game.Teams[i]
		if t.Chisla, err = parseChisla(chisla[t.Name]); err != nil {
			return nil, fmt.Errorf("sheet %s, team %q: %w", SheetChisla, t.Name, err)
		}
		if t.Pref, err = parsePref(pref[t.Name]); err != nil {
			return nil, fmt.Errorf("sheet %s, team %q: %w", SheetPref, t.Name, err)
		}
		if t.Pairs, err = parsePairs(pairs[t.Name]); err != nil {
			return nil, fmt.Errorf("sheet %s, team %q: %w", SheetPairs, t.Name, err)
		}
		if t.Razobl, err = parseRazobl(razobl[t.Name]); err != nil {
			return nil, fmt.Errorf("sheet %s, team %q: %w", SheetRazobl, t.Name, err)
		}
		if t.Auction, err = parseAuction(auction[t.Name]); err != nil {
			return nil, fmt.Errorf("sheet %s, team %q: %w", SheetAuction, t.Name, err)
		}
		if t.Mot, err = parseMot(mot[t.Name]); err != nil {
			return nil, fmt.Errorf("sheet %s, team %q: %w", SheetMot, t.Name, err)
		}
	}

	return game, nil
}

func parseDate(f *excelize.File) (time.Time, error) {
	cell, err := f.GetCellValue(SheetInfo, "B1")
	if err != nil {
		return time.Time{}, fmt.Errorf("sheet %s: %w", SheetInfo, err)
	}
	cell = strings.TrimSpace(cell)
	for _, layout := range dateFormats {
		if d, err := time.Parse(layout, cell); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("sheet %s, cell B1: unrecognized date %q", SheetInfo, cell)
}

// sheetRows returns the data rows of a sheet: header row dropped, empty rows
// and rows with an empty team cell skipped.
func sheetRows(f *excelize.File, sheet string) ([][]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", sheet, err)
	}
	var out [][]string
	for i, row := range rows {
		if i == 0 || len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		row[0] = strings.TrimSpace(row[0])
		out = append(out, row)
	}
	return out, nil
}

// teamRows indexes a sheet's data rows by team name and checks the sheet
// covers exactly the teams the vybor sheet declared.
func teamRows(f *excelize.File, sheet string, game *models.GameData) (map[string][]string, error) {
	rows, err := sheetRows(f, sheet)
	if err != nil {
		return nil, err
	}
	byTeam := make(map[string][]string, len(rows))
	for _, row := range rows {
		byTeam[row[0]] = row
	}
	for i := range game.Teams {
		if _, ok := byTeam[game.Teams[i].Name]; !ok {
			return nil, fmt.Errorf("sheet %s: no row for team %q", sheet, game.Teams[i].Name)
		}
	}
	return byTeam, nil
}

// cellDecimal parses one numeric cell at the given column, tolerating comma
// decimal separators and treating empty cells as zero. Values round to the
// storage precision of 2 places.
func cellDecimal(row []string, col int) (decimal.Decimal, error) {
	if col >= len(row) || strings.TrimSpace(row[col]) == "" {
		return decimal.Zero, nil
	}
	raw := strings.ReplaceAll(strings.TrimSpace(row[col]), ",", ".")
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("column %d: bad number %q", col+1, row[col])
	}
	return d.Round(2), nil
}

// cellDecimalPtr is cellDecimal for nullable columns: empty stays nil.
func cellDecimalPtr(row []string, col int) (*decimal.Decimal, error) {
	if col >= len(row) || strings.TrimSpace(row[col]) == "" {
		return nil, nil
	}
	d, err := cellDecimal(row, col)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func cellDecimals(row []string, start, n int) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, n)
	for i := 0; i < n; i++ {
		d, err := cellDecimal(row, start+i)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

// Columns per round sheet: team name in A, tasks left to right, totals last.

func parseChisla(row []string) (*models.ChislaScore, error) {
	vals, err := cellDecimals(row, 1, 6)
	if err != nil {
		return nil, err
	}
	sc := &models.ChislaScore{TotalSum: vals[5]}
	copy(sc.Tasks[:], vals[:5])
	return sc, nil
}

func parsePref(row []string) (*models.PrefScore, error) {
	vals, err := cellDecimals(row, 1, 11)
	if err != nil {
		return nil, err
	}
	sc := &models.PrefScore{
		Points:   vals[7],
		Penalty:  vals[8],
		Bonus:    vals[9],
		TotalSum: vals[10],
	}
	copy(sc.Tasks[:], vals[:7])
	return sc, nil
}

func parsePairs(row []string) (*models.PairsScore, error) {
	points, err := cellDecimal(row, 1)
	if err != nil {
		return nil, err
	}
	return &models.PairsScore{Points: points}, nil
}

func parseRazobl(row []string) (*models.RazoblScore, error) {
	vals, err := cellDecimals(row, 1, 5)
	if err != nil {
		return nil, err
	}
	sc := &models.RazoblScore{TotalSum: vals[4]}
	copy(sc.Tasks[:], vals[:4])
	return sc, nil
}

func parseAuction(row []string) (*models.AuctionScore, error) {
	sc := &models.AuctionScore{}
	col := 1
	for i := 0; i < 4; i++ {
		bid, err := cellDecimal(row, col)
		if err != nil {
			return nil, err
		}
		points, err := cellDecimal(row, col+1)
		if err != nil {
			return nil, err
		}
		rate, err := cellDecimalPtr(row, col+2)
		if err != nil {
			return nil, err
		}
		sc.Tasks[i] = models.AuctionTask{Bid: bid, Points: points, Rate: rate}
		col += 3
	}
	total, err := cellDecimal(row, col)
	if err != nil {
		return nil, err
	}
	sc.TotalSum = total
	return sc, nil
}

func parseMot(row []string) (*models.MotScore, error) {
	vals, err := cellDecimals(row, 1, 4)
	if err != nil {
		return nil, err
	}
	sc := &models.MotScore{TotalSum: vals[3]}
	copy(sc.Tasks[:], vals[:3])
	return sc, nil
}
