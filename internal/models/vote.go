package models

// EntityType - тип сущности, за которую голосуют.
type EntityType string

const (
	EntityThread  EntityType = "thread"
	EntityComment EntityType = "comment"
)

// Valid сообщает, известен ли тип сущности.
func (e EntityType) Valid() bool {
	return e == EntityThread || e == EntityComment
}
