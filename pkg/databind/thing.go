package databind

import (
	"strings"
)

// Capability — набор возможностей сущности. Листинги и диспетчер проверяют
// принадлежность к набору, а не иерархию типов.
type Capability uint32

const (
	// CapFullName — сущность адресуется fullname = kind + "_" + id.
	CapFullName Capability = 1 << iota
	// CapCreated — у сущности есть время создания.
	CapCreated
	// CapNested — элемент дерева: известен fullname родителя.
	CapNested
	// CapVotable — за сущность можно голосовать (score, likes).
	CapVotable
	// CapDistinguishable — сущность может быть выделена модератором/админом.
	CapDistinguishable
	// CapPublicContribution — публичный вклад пользователя в сабреддит.
	CapPublicContribution
	// CapReferenceable — для сущности есть binder в references.
	CapReferenceable
)

var capabilityNames = []string{
	"fullname",
	"created",
	"nested",
	"votable",
	"distinguishable",
	"public_contribution",
	"referenceable",
}

// Has сообщает, содержит ли набор все возможности need.
func (c Capability) Has(need Capability) bool {
	return c&need == need
}

func (c Capability) String() string {
	if c == 0 {
		return "none"
	}

	var parts []string
	for i, name := range capabilityNames {
		if c&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}

	return strings.Join(parts, "|")
}

// Thing — всё, что диспетчер способен вернуть из конверта.
//
// UniqueID — ключ идентичности для дедупликации и сравнения: fullname для
// сущностей верхнего уровня, локальный id для вложенных заглушек. Сравнивать
// модели нужно по нему, а не по адресу в памяти.
type Thing interface {
	Kind() string
	UniqueID() string
	Capabilities() Capability
}

// Identifiable — Thing с глобальной идентичностью kind + "_" + id.
type Identifiable interface {
	Thing
	ID() string
	FullName() string
}

// FullName собирает fullname из kind и id.
func FullName(kind, id string) string {
	return kind + "_" + id
}

// SameThing сравнивает две сущности по UniqueID (и kind).
func SameThing(a, b Thing) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.Kind() == b.Kind() && a.UniqueID() == b.UniqueID()
}
