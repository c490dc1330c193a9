// models содержит доменные сущности форума.
// Типы используются слоями бизнес-логики, хранилищ и HTTP-транспорта.
package models
