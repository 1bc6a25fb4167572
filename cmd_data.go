package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"classmap-server-go/db"
)

var importStudentsCmd = &cobra.Command{
	Use:   "import-students [file.xlsx]",
	Short: "Convert a spreadsheet of students to students.json",
	Long: `Reads the first sheet of a workbook, skipping the header row. Column A is the student
name and column B the school id; a blank school id means gap year.`,
	Args: cobra.ExactArgs(1),
	RunE: runImportStudents,
}

var exportRosterCmd = &cobra.Command{
	Use:   "export-roster [out.xlsx]",
	Short: "Write the roster grouped by school to a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runExportRoster,
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Push the data files to Redis for serve --source redis",
	RunE:  runPublish,
}

func init() {
	importStudentsCmd.Flags().StringP("out", "o", "", "Output file (default <data>/students.json)")
}

func runImportStudents(cmd *cobra.Command, args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	students, err := db.ImportStudentsFromExcel(in, logger)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = filepath.Join(dataDir(cmd), db.StudentsFile)
	}

	data, err := json.MarshalIndent(students, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	logger.Infof("Wrote %d students to %s", len(students), out)
	return nil
}

func runExportRoster(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	buf := &bytes.Buffer{}
	if err := db.WriteRosterWorkbook(buf, ds); err != nil {
		return err
	}
	if err := os.WriteFile(args[0], buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", args[0], err)
	}
	logger.Infof("Wrote roster to %s", args[0])
	return nil
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ds, err := db.LoadAndReport(ctx, dataDir(cmd), logger)
	if err != nil {
		return err
	}

	client, err := db.InitializeRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer client.Close()

	return db.NewRedisService(client, logger).PublishDataset(ctx, ds)
}
