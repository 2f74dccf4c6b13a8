package types

// FieldKind 表单字段的输入类型
type FieldKind string

const (
	KindText           FieldKind = "text"
	KindTextarea       FieldKind = "textarea"
	KindDate           FieldKind = "date"
	KindCurrency       FieldKind = "currency"
	KindAddress        FieldKind = "address"
	KindCheckbox       FieldKind = "checkbox"
	KindSelect         FieldKind = "select"
	KindRepeatableText FieldKind = "repeatable-text"
	KindPartiesList    FieldKind = "parties-list"
)

// Valid 是否为已知类型
func (k FieldKind) Valid() bool {
	switch k {
	case KindText, KindTextarea, KindDate, KindCurrency, KindAddress,
		KindCheckbox, KindSelect, KindRepeatableText, KindPartiesList:
		return true
	}
	return false
}

// IsList 列表类字段，值为 []string
func (k FieldKind) IsList() bool {
	return k == KindRepeatableText || k == KindPartiesList
}

// FieldSpec 单个表单字段的声明
type FieldSpec struct {
	Key      string    `json:"key" yaml:"key"`
	Label    string    `json:"label" yaml:"label"`
	Kind     FieldKind `json:"kind" yaml:"kind"`
	Options  []string  `json:"options,omitempty" yaml:"options,omitempty"`
	Optional bool      `json:"optional,omitempty" yaml:"optional,omitempty"`
	Min      int       `json:"min,omitempty" yaml:"min,omitempty"`
}

// ContractTypeSchema 某一合同类型的字段列表，加载后只读
type ContractTypeSchema struct {
	Type   string      `json:"type" yaml:"type"`
	Label  string      `json:"label" yaml:"label"`
	Fields []FieldSpec `json:"fields" yaml:"fields"`
}

// Field 按 key 查找字段
func (s ContractTypeSchema) Field(key string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// FormValueMap 字段 key -> 值 (string / bool / []string，取决于字段类型)
type FormValueMap map[string]any
