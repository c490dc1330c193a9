// votes реализует сведение голоса пользователя с агрегатом up/down.
//
// Состояние голоса пользователя по сущности - None, Up или Down.
// Повторный голос в том же направлении отзывает его; голос в противоположном
// направлении снимает старый вклад и добавляет новый (-1 старое, +1 новое).
// После ответа сервера источником истины служит серверный агрегат:
// оптимистичная дельта (Pending) отбрасывается в Confirm.
package votes

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDirection - направление голоса не up/down.
var ErrInvalidDirection = errors.New("invalid vote direction")

// Direction - направление голоса пользователя.
type Direction int8

const (
	None Direction = iota
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "none"
	}
}

// ParseDirection разбирает "up"/"down"/"none" (без учёта регистра и пробелов).
// Пустая строка трактуется как None.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "", "none":
		return None, nil
	default:
		return None, fmt.Errorf("%q: %w", s, ErrInvalidDirection)
	}
}

// Tally - агрегат голосов сущности.
type Tally struct {
	Up   int64
	Down int64
}

// Score - итоговый рейтинг (up - down).
func (t Tally) Score() int64 { return t.Up - t.Down }

func (t Tally) add(d Direction, delta int64) Tally {
	switch d {
	case Up:
		t.Up = clamp(t.Up + delta)
	case Down:
		t.Down = clamp(t.Down + delta)
	}

	return t
}

func clamp(v int64) int64 {
	if v < 0 {
		return 0
	}

	return v
}

// Change - мутация хранилища, соответствующая переходу состояния.
type Change int8

const (
	// Insert - голоса не было, создаём запись.
	Insert Change = iota + 1
	// Delete - повтор того же направления, запись удаляется.
	Delete
	// Switch - смена направления у существующей записи.
	Switch
)

func (c Change) String() string {
	switch c {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	case Switch:
		return "switch"
	default:
		return "unknown"
	}
}

// Cast применяет голос requested к текущему состоянию пользователя и агрегату.
// requested == None недопустим.
func Cast(current Direction, tally Tally, requested Direction) (Direction, Tally, Change, error) {
	if requested != Up && requested != Down {
		return current, tally, 0, ErrInvalidDirection
	}

	switch current {
	case requested:
		return None, tally.add(requested, -1), Delete, nil
	case None:
		return requested, tally.add(requested, +1), Insert, nil
	default:
		return requested, tally.add(current, -1).add(requested, +1), Switch, nil
	}
}

// Pending - оптимистичное представление голоса до подтверждения сервером.
type Pending struct {
	Before    Direction
	BeforeT   Tally
	State     Direction
	Tally     Tally
	Requested Direction
	// Change - мутация хранилища, которая переводит Before в State.
	Change Change
}

// Optimistic считает оптимистичное состояние для немедленного отображения.
func Optimistic(current Direction, tally Tally, requested Direction) (Pending, error) {
	next, nextTally, change, err := Cast(current, tally, requested)
	if err != nil {
		return Pending{}, err
	}

	return Pending{
		Before:    current,
		BeforeT:   tally,
		State:     next,
		Tally:     nextTally,
		Requested: requested,
		Change:    change,
	}, nil
}

// Confirm отбрасывает оптимистичную дельту и возвращает авторитетные значения.
func (p Pending) Confirm(state Direction, authoritative Tally) (Direction, Tally) {
	return state, authoritative
}

// Rollback возвращает состояние до оптимистичного шага (ответ сервера - ошибка).
func (p Pending) Rollback() (Direction, Tally) {
	return p.Before, p.BeforeT
}
