package main

import (
	"github.com/spf13/cobra"

	"classmap-server-go/mapview"
	"classmap-server-go/web"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the page as a static site",
	Long: `Loads the data files once and writes index.html plus its assets. The built page runs
every interaction in the browser and needs no server. A missing or malformed data file fails
the build.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("out", "o", "dist", "Output directory")
}

func runBuild(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("out")

	ds, err := loadDataset(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	page := mapview.NewPage(ds, cfg.PageOptions(), mapview.NewCanvas)
	page.Mount()

	view := web.NewPageView(pageMeta(), ds, page, web.ModeStatic, newBuildID())
	if err := web.WriteStaticSite(out, view); err != nil {
		return err
	}
	logger.Infof("Wrote static page to %s", out)
	return nil
}
