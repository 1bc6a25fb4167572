package db

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"classmap-server-go/models"
)

const (
	rosterSheet  = "Roster"
	gapYearTitle = "Gap Year"
)

// ImportStudentsFromExcel reads students from the first sheet of a workbook.
// Column A is the student name, column B the school ID (blank means gap year).
func ImportStudentsFromExcel(file io.Reader, logger *zap.SugaredLogger) ([]models.Student, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warnf("Error closing excel file: %v", err)
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("excel file does not contain any sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}

	students := []models.Student{}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}

		var name, rawID string
		if len(row) > 0 {
			name = strings.TrimSpace(row[0])
		}
		if len(row) > 1 {
			rawID = strings.TrimSpace(row[1])
		}

		if name == "" {
			logger.Debugf("Skipping row %d with no name", i+1)
			continue
		}

		schoolID := models.GapYearSchoolID
		if rawID != "" {
			schoolID, err = strconv.Atoi(rawID)
			if err != nil {
				logger.Warnf("Skipping row %d: school id %q is not a number", i+1, rawID)
				continue
			}
		}

		students = append(students, models.Student{Name: name, SchoolID: schoolID})
	}

	logger.Infof("Imported %d students from sheet %s", len(students), sheetName)
	return students, nil
}

// WriteRosterWorkbook writes the sidebar roster as a spreadsheet: one row per student,
// grouped by school in sidebar order, followed by the gap year group.
func WriteRosterWorkbook(w io.Writer, ds *models.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(rosterSheet)
	if err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(rosterSheet)
	if err != nil {
		return err
	}

	if err := sw.SetRow("A1", []interface{}{"School", "Student", "Coordinates"}); err != nil {
		return err
	}

	rowNum := 2
	// nil values leave the cell out of the sheet
	writeRow := func(values ...interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		rowNum++
		return sw.SetRow(cell, values)
	}

	for _, school := range ds.RosterSchools() {
		var coords interface{}
		if school.Coords != nil {
			coords = school.Coords.String()
		}
		enrolled := ds.StudentsAt(school.ID)
		if len(enrolled) == 0 {
			if err := writeRow(school.Name, nil, coords); err != nil {
				return err
			}
			continue
		}
		for _, st := range enrolled {
			if err := writeRow(school.Name, st.Name, coords); err != nil {
				return err
			}
		}
	}
	for _, st := range ds.GapYear() {
		if err := writeRow(gapYearTitle, st.Name); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}

	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}
