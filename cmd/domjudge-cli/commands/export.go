package commands

import (
	"fmt"
	"os"

	"domjudge-tool/lib/exportutil"
	"domjudge-tool/lib/serviceutil"
)

// writeDataset renders a dataset to the terminal, or exports it when a
// format was requested. `name` is the default file stem for exports.
func writeDataset(dataset exportutil.Dataset, format, out, name string) {
	switch format {
	case "":
		dataset.RenderTable(os.Stdout)
		return
	case "csv", "json":
	default:
		serviceutil.Fatal("unknown export format", fmt.Errorf("%q is not csv or json", format))
	}

	if out == "" {
		out = fmt.Sprintf("%s.%s", name, format)
	}
	f, err := os.Create(out)
	if err != nil {
		serviceutil.Fatal("failed to create export file", err)
	}
	defer f.Close()

	if format == "csv" {
		err = dataset.WriteCSV(f)
	} else {
		err = dataset.WriteJSON(f)
	}
	if err != nil {
		serviceutil.Fatal("failed to write export file", err)
	}
	fmt.Println(out)
}
