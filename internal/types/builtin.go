package types

import (
	"fmt"
	"sort"
)

// Built-in schema names.
const (
	SchemaJob                 = "job"
	SchemaVietnameseJobSearch = "job_search_vi"
)

// JobSchema returns the English four-field job record.
func JobSchema() FieldSchema {
	return MustFieldSchema(SchemaJob,
		FieldSpec{
			Name:        "Price",
			Description: "Price of job",
			Pattern:     `(?i)(\$\d+(?:[.,]\d+)?|\d+(?:[.,]\d+)?\s?(?:k|m|usd|vnd|dollars?)\b)`,
		},
		FieldSpec{
			Name:        "Time",
			Description: "Time of job",
			Pattern:     `(?i)(\d+(?:[.,]\d+)?\s?(?:hours?|hrs?|h|minutes?|mins?|days?|weeks?))\b`,
		},
		FieldSpec{
			Name:        "Review star",
			Description: "Review star",
			Pattern:     `(?i)(\d(?:[.,]\d)?)\s?(?:-\s?)?stars?\b`,
		},
		FieldSpec{
			Name:        "Job name",
			Description: "Job name",
			Pattern:     `(?i)(?:\b(?:is|as|for)\s+(?:an?\s+|the\s+)?([\p{L}][\p{L}\- ]*?)\s+job\b|,\s*([\p{L}][\p{L}\- ]*?)\s*[.!?]*\s*$)`,
		},
	)
}

// VietnameseJobSearchSchema returns the six-field Vietnamese job-search record.
func VietnameseJobSearchSchema() FieldSchema {
	return MustFieldSchema(SchemaVietnameseJobSearch,
		FieldSpec{
			Name:        "Giá",
			Description: "Giá tiền người dùng muốn trả cho công việc",
			Pattern:     `(?i)(\d+(?:[.,]\d+)?\s?(?:k|nghìn|ngàn|triệu|tr|vnđ|vnd|đ))`,
		},
		FieldSpec{
			Name:        "Thời gian",
			Description: "Thời lượng thực hiện công việc",
			Pattern:     `(?i)(\d+(?:[.,]\d+)?\s?(?:tiếng|giờ|phút))`,
		},
		FieldSpec{
			Name:        "Số sao đánh giá",
			Description: "Số sao đánh giá tối thiểu của người làm",
			Pattern:     `(?i)(\d(?:[.,]\d)?)\s?sao`,
		},
		FieldSpec{
			Name:        "Tên công việc",
			Description: "Tên công việc cần tìm",
			Pattern:     `(?i)(?:công việc|việc|làm)\s+([\p{L}][\p{L} ]*?)\s*(?:[,.;]|$)`,
		},
		FieldSpec{
			Name:        "Địa điểm",
			Description: "Địa điểm làm việc",
			Pattern:     `(?i)(?:ở|tại|khu vực)\s+([\p{L}][\p{L} ]*?)\s*(?:[,.;]|$)`,
		},
		FieldSpec{
			Name:        "Ngày làm việc",
			Description: "Ngày bắt đầu làm việc",
			Pattern:     `(?i)(?:ngày|vào)\s+(\d{1,2}/\d{1,2}(?:/\d{2,4})?|thứ\s+\p{L}+|chủ nhật|hôm nay|ngày mai)`,
		},
	)
}

var builtins = map[string]func() FieldSchema{
	SchemaJob:                 JobSchema,
	SchemaVietnameseJobSearch: VietnameseJobSearchSchema,
}

// BuiltinSchema returns a built-in schema by name.
func BuiltinSchema(name string) (FieldSchema, error) {
	build, ok := builtins[name]
	if !ok {
		return FieldSchema{}, fmt.Errorf("unknown schema %q (available: %v)", name, BuiltinSchemaNames())
	}
	return build(), nil
}

// BuiltinSchemaNames lists built-in schema names, sorted.
func BuiltinSchemaNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
