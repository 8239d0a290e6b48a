package cmd

import (
	"bufio"
	"io"
	"os/exec"
	"runtime"
	"strconv"

	"gisthub/cli/internal/bridge"
)

// driveRow is how a drive is listed. The token itself is never shown.
type driveRow struct {
	Name        string `json:"name"`
	Root        string `json:"root"`
	HasToken    bool   `json:"hasToken"`
	Description string `json:"description"`
}

func newDriveRow(d *bridge.Drive) driveRow {
	return driveRow{Name: d.Name, Root: d.Root, HasToken: d.Credential != "", Description: d.Description}
}

func (d driveRow) TableHeader() []string { return []string{"Name", "Root", "Token", "Description"} }

func (d driveRow) TableRow() []string {
	return []string{d.Name, d.Root, strconv.FormatBool(d.HasToken), d.Description}
}

// readRecords returns the records to write: args when given, otherwise the
// lines of r.
func readRecords(args []string, r io.Reader) ([]any, error) {
	records := make([]any, 0, len(args))
	if len(args) > 0 {
		for _, a := range args {
			records = append(records, a)
		}
		return records, nil
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		records = append(records, sc.Text())
	}
	return records, sc.Err()
}

// openBrowser attempts to open the provided URL in the user's default browser.
// It uses platform-specific commands to launch the default browser:
//   - Windows: rundll32 url.dll,FileProtocolHandler
//   - macOS: open command
//   - Linux: xdg-open command
//
// The function starts the browser process but does not wait for it to complete.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
