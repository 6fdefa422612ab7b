package ingest

import (
	"strconv"
	"strings"
)

// Pasted lines follow a fixed column order:
// DGW PIC, ASUS PIC, Part number, SKU, Qty, Unit price, Order email, SI, EU.
const (
	pasteColumns  = 9
	pasteQtyIndex = 4
)

// ParsePaste splits pasted TSV/CSV text into candidates. Lines with fewer
// than nine cells are counted as skipped right here, the first line
// included; a full-width leading header line is dropped and counted nowhere.
func ParsePaste(text string) (cands []Candidate, skipped int) {
	first := true
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := SplitPasteLine(line)
		isFirst := first
		first = false
		if len(parts) < pasteColumns {
			skipped++
			continue
		}
		if isFirst && IsHeaderLine(parts) {
			continue
		}
		cands = append(cands, Candidate{
			DGWPIC:         parts[0],
			AsusPIC:        parts[1],
			PartNumber:     parts[2],
			SKUCode:        parts[3],
			Qty:            parts[4],
			PriceVND:       parts[5],
			AsusOrderEmail: parts[6],
			SI:             parts[7],
			EU:             parts[8],
		})
	}
	return cands, skipped
}

// SplitPasteLine treats tabs as commas and trims every cell.
func SplitPasteLine(line string) []string {
	line = strings.TrimRight(line, "\r")
	parts := strings.Split(strings.ReplaceAll(line, "\t", ","), ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// IsHeaderLine reports whether the quantity-position cell holds text that is
// not a number. A blank cell is a bad data row, not a header.
func IsHeaderLine(parts []string) bool {
	if len(parts) <= pasteQtyIndex {
		return false
	}
	cell := parts[pasteQtyIndex]
	if cell == "" {
		return false
	}
	_, err := strconv.ParseFloat(cell, 64)
	return err != nil
}
