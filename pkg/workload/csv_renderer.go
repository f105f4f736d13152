package workload

import (
	"bytes"
	"encoding/csv"
	"strconv"

	log "github.com/sirupsen/logrus"
)

type CsvRenderer interface {
	RenderYear(view YearView) (string, error)
}

type CsvRendererImpl struct {
}

func NewCsvRenderer() *CsvRendererImpl {
	return &CsvRendererImpl{}
}

// RenderYear renders one row per week: number, status, label, notes.
func (t *CsvRendererImpl) RenderYear(view YearView) (string, error) {
	data := make([][]string, 0, len(view.Weeks)+1)
	data = append(data, []string{"Week", "Status", "Label", "Notes"})
	for _, record := range view.Weeks {
		data = append(data, []string{
			strconv.Itoa(record.WeekNumber),
			string(record.Status),
			record.Status.Label(),
			record.Notes,
		})
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}
