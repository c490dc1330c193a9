// tree собирает плоский список комментариев ветки в лес (корни + дети).
//
// Сборка за два прохода: сначала индекс id -> узел, затем связывание в порядке входа.
// Порядок детей совпадает с порядком записей на входе; пересортировки нет.
// Ни одна запись не теряется: записи с отсутствующим родителем, ссылкой на себя
// или попавшие в цикл становятся корнями. Дубликаты id - ошибка целостности данных:
// сохраняется первая запись, остальные логируются и пропускаются.
package tree

import (
	"context"

	"github.com/pribylovaa/go-forum/pkg/log"
)

// Node - узел дерева.
type Node[T any] struct {
	ID       string
	ParentID string
	Value    T
	Children []*Node[T]

	parent *Node[T]
}

// Forest - список корневых узлов.
type Forest[T any] []*Node[T]

// KeyFunc возвращает идентификатор записи и идентификатор её родителя
// (пустая строка - корень).
type KeyFunc[T any] func(item T) (id, parentID string)

// Build строит лес из items. Пустой вход даёт пустой (не nil) лес.
func Build[T any](ctx context.Context, items []T, key KeyFunc[T]) Forest[T] {
	lg := log.From(ctx)

	index := make(map[string]*Node[T], len(items))
	nodes := make([]*Node[T], 0, len(items))

	for _, item := range items {
		id, parentID := key(item)
		if _, dup := index[id]; dup {
			lg.Warn("comment_tree_duplicate_id", "id", id)
			continue
		}

		n := &Node[T]{ID: id, ParentID: parentID, Value: item}
		index[id] = n
		nodes = append(nodes, n)
	}

	roots := make(Forest[T], 0, len(nodes))
	for _, n := range nodes {
		switch {
		case n.ParentID == "":
			roots = append(roots, n)
		case n.ParentID == n.ID:
			lg.Warn("comment_tree_self_parent", "id", n.ID)
			roots = append(roots, n)
		default:
			p, ok := index[n.ParentID]
			if !ok {
				lg.Debug("comment_tree_orphan_promoted", "id", n.ID, "parent_id", n.ParentID)
				roots = append(roots, n)
				continue
			}

			n.parent = p
			p.Children = append(p.Children, n)
		}
	}

	// Узлы, недостижимые из корней, образуют циклы (a -> b -> a).
	if reached := roots.Len(); reached < len(nodes) {
		roots = breakCycles(ctx, roots, nodes)
	}

	return roots
}

// breakCycles делает корнем первый (по порядку входа) узел каждого цикла.
func breakCycles[T any](ctx context.Context, roots Forest[T], nodes []*Node[T]) Forest[T] {
	seen := make(map[*Node[T]]struct{}, len(nodes))
	mark := func(_ int, n *Node[T]) bool {
		seen[n] = struct{}{}
		return true
	}
	roots.Walk(mark)

	for _, n := range nodes {
		if _, ok := seen[n]; ok {
			continue
		}

		log.From(ctx).Warn("comment_tree_cycle_broken", "id", n.ID, "parent_id", n.ParentID)
		if p := n.parent; p != nil {
			p.Children = removeChild(p.Children, n)
			n.parent = nil
		}

		roots = append(roots, n)
		Forest[T]{n}.Walk(mark)
	}

	return roots
}

func removeChild[T any](children []*Node[T], target *Node[T]) []*Node[T] {
	for i, c := range children {
		if c == target {
			return append(children[:i], children[i+1:]...)
		}
	}

	return children
}

// Walk обходит лес в глубину (pre-order). depth корня = 0.
// Если fn возвращает false, потомки текущего узла пропускаются.
func (f Forest[T]) Walk(fn func(depth int, n *Node[T]) bool) {
	var visit func(depth int, n *Node[T])
	visit = func(depth int, n *Node[T]) {
		if !fn(depth, n) {
			return
		}

		for _, c := range n.Children {
			visit(depth+1, c)
		}
	}

	for _, r := range f {
		visit(0, r)
	}
}

// Len возвращает общее число узлов в лесу.
func (f Forest[T]) Len() int {
	total := 0
	f.Walk(func(int, *Node[T]) bool {
		total++
		return true
	})

	return total
}

// Depth возвращает максимальную глубину (пустой лес - 0, только корни - 1).
func (f Forest[T]) Depth() int {
	maxDepth := 0
	f.Walk(func(depth int, _ *Node[T]) bool {
		if depth+1 > maxDepth {
			maxDepth = depth + 1
		}
		return true
	})

	return maxDepth
}
