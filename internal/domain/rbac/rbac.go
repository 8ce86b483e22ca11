// Пакет rbac — роли пользователей Museum Admin API.
// admin изменяет справочник, readonly только читает.
package rbac

import (
	"net/http"
	"slices"
)

// Role — роль пользователя. Пустая строка означает отсутствие роли.
type Role string

const (
	Readonly Role = "readonly"
	Admin    Role = "admin"
)

// ladder — роли от младшей к старшей.
var ladder = []Role{Readonly, Admin}

// rank — позиция роли в ladder, -1 для неизвестной.
func (r Role) rank() int {
	return slices.Index(ladder, r)
}

// Valid сообщает, известна ли роль.
func (r Role) Valid() bool {
	return r.rank() >= 0
}

// Covers сообщает, достаточно ли роли r там, где требуется required.
func (r Role) Covers(required Role) bool {
	return r.Valid() && r.rank() >= required.rank()
}

// Highest возвращает старшую из известных ролей; неизвестные пропускаются.
func Highest(roles ...Role) Role {
	var top Role
	for _, r := range roles {
		if r.rank() > top.rank() {
			top = r
		}
	}
	return top
}

// FromGroups определяет роль по группам IdP.
func FromGroups(groups, adminGroups, readonlyGroups []string) Role {
	var top Role
	for _, g := range groups {
		if slices.Contains(adminGroups, g) {
			return Admin
		}
		if slices.Contains(readonlyGroups, g) {
			top = Readonly
		}
	}
	return top
}

// FromNames переводит имена ролей IdP в старшую известную роль.
func FromNames(names []string) Role {
	roles := make([]Role, len(names))
	for i, n := range names {
		roles[i] = Role(n)
	}
	return Highest(roles...)
}

// ForMethod — минимальная роль для HTTP-метода.
func ForMethod(method string) Role {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return Readonly
	}
	return Admin
}
