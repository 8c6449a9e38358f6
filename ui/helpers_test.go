package ui

import (
	"bytes"

	"github.com/xuri/excelize/v2"
)

func excelizeOpen(data []byte) (*excelize.File, error) {
	return excelize.OpenReader(bytes.NewReader(data))
}
