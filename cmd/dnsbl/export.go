// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"fmt"

	"github.com/H0llyW00dzZ/dnsbl-checker/src/dnsbl"
	"github.com/xuri/excelize/v2"
)

const resultSheet = "Results"

var resultHeader = []any{"Item", "Blacklist", "Query", "Result", "Meaning", "Elapsed (ms)"}

// exportXLSX writes results to a workbook at path, one row per listing.
func exportXLSX(path string, results []dnsbl.Result) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", resultSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(resultSheet, "A1", &resultHeader); err != nil {
		return err
	}

	for i, r := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{r.Item, r.Blacklist, r.Query, r.Result, r.Meaning, r.Elapsed.Milliseconds()}
		if err := f.SetSheetRow(resultSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write '%s' : %w", path, err)
	}
	return nil
}
