package models

import (
	"slices"

	"github.com/dukestreet/JRAW/pkg/databind"
)

// threadContinuationID — id заглушки «продолжить тред» (глубина исчерпана).
const threadContinuationID = "_"

// MoreChildren — заглушка ленивой подгрузки в дереве комментариев (kind more).
//
// Несёт только список id соседей. Это лист дерева: подгрузка выполняется
// отдельным запросом вне этого пакета.
type MoreChildren struct {
	id       string
	name     string
	parentID string
	children []string
	count    int
	depth    int
}

var moreMapping = databind.NewMapping("MoreChildren",
	databind.Required("id", databind.String, func(m *MoreChildren) *string { return &m.id }),
	databind.Required("name", databind.String, func(m *MoreChildren) *string { return &m.name }),
	databind.Required("parent_id", databind.String, func(m *MoreChildren) *string { return &m.parentID }),
	databind.Required("children", databind.SliceOf(databind.String), func(m *MoreChildren) *[]string { return &m.children }),
	databind.Optional("count", databind.NonNegativeInt, func(m *MoreChildren) *int { return &m.count }),
	databind.Optional("depth", databind.NonNegativeInt, func(m *MoreChildren) *int { return &m.depth }),
)

func (m *MoreChildren) Kind() string { return KindMore }
func (m *MoreChildren) ID() string   { return m.id }

// FullName возвращает name с провода. Для more он не равен kind + "_" + id.
func (m *MoreChildren) FullName() string { return m.name }

// UniqueID — локальный id: заглушка идентифицируется только внутри своего треда.
func (m *MoreChildren) UniqueID() string { return m.id }

func (m *MoreChildren) Capabilities() databind.Capability { return databind.CapNested }

func (m *MoreChildren) ParentFullName() string { return m.parentID }

// ChildrenIDs возвращает id скрытых соседей в порядке сервера.
func (m *MoreChildren) ChildrenIDs() []string { return slices.Clone(m.children) }

// Count — число скрытых комментариев по данным сервера.
func (m *MoreChildren) Count() int { return m.count }

func (m *MoreChildren) Depth() int { return m.depth }

// IsThreadContinuation сообщает, что заглушка означает «продолжить тред»
// (ветка глубже лимита), а не список соседей.
func (m *MoreChildren) IsThreadContinuation() bool {
	return m.id == threadContinuationID && len(m.children) == 0
}
