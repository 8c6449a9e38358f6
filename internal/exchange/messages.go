package exchange

import "samplewms/internal/errors"

// Operation names a user-facing exchange action
type Operation string

const (
	OpExport   Operation = "export"
	OpImport   Operation = "import"
	OpTemplate Operation = "template"
)

const (
	msgNoValidData   = "未在文件中找到有效数据，请确保包含“产品名称”和“货架位置”列。"
	msgUnreadable    = "文件解析失败，请检查文件格式是否正确。"
	msgInvalidFile   = "请上传有效的 Excel 文件 (.xlsx) 或 CSV 文件"
	msgTemplateError = "模板生成失败"
	msgExportError   = "导出失败，请稍后重试"
)

// UserMessage returns the text shown to the user when op fails with err
func UserMessage(op Operation, err error) string {
	switch errors.GetCode(err) {
	case errors.CodeNoValidData:
		return msgNoValidData
	case errors.CodeMalformedDocument:
		return msgUnreadable
	case errors.CodeInvalidInput:
		if op == OpImport {
			return msgInvalidFile
		}
	}

	switch op {
	case OpTemplate:
		return msgTemplateError
	case OpImport:
		return msgUnreadable
	}
	return msgExportError
}
