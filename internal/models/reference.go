package models

// IdeaCategory is one of the statutory IDEA disability categories.
type IdeaCategory struct {
	ID          string `db:"id" json:"id" yaml:"-"`
	Code        string `db:"code" json:"code" yaml:"code"`
	Name        string `db:"name" json:"name" yaml:"name"`
	Description string `db:"description" json:"description" yaml:"description"`
}

// BehaviorCategory groups observable behaviors for data entry.
type BehaviorCategory struct {
	ID         string `db:"id" json:"id" yaml:"-"`
	Name       string `db:"name" json:"name" yaml:"name"`
	Domain     string `db:"domain" json:"domain" yaml:"domain"`
	IsPositive bool   `db:"is_positive" json:"isPositive" yaml:"positive"`
	Color      string `db:"color" json:"color" yaml:"color"`
}
