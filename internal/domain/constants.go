package domain

import "slices"

// DefaultLocale выдается игроку при входе.
const DefaultLocale = "en_US"

// Locales - поддерживаемые языки интерфейса.
var Locales = []string{"en_US", "ru_RU"}

// Monsters - каталог спрайтов, которые умеет рисовать клиент.
// Набор cowsay плюс собственный jgsbat.
var Monsters = []string{
	"beavis", "bunny", "cheese", "cow", "daemon", "default", "dragon",
	"fox", "ghostbusters", "jgsbat", "kitty", "meow", "milk", "octopus",
	"pig", "stegosaurus", "stimpy", "trex", "turkey", "turtle", "tux",
}

// Weapons - урон оружия по умолчанию.
var Weapons = map[string]int{
	"sword": 10,
	"spear": 15,
	"axe":   20,
}

// UnknownWeapon подставляется в сообщения, если клиент не назвал оружие.
const UnknownWeapon = "unknown"

func IsSupportedLocale(locale string) bool {
	return slices.Contains(Locales, locale)
}

func IsKnownMonster(name string) bool {
	return slices.Contains(Monsters, name)
}

// WeaponDamage возвращает урон оружия и признак того, что оно есть в каталоге.
func WeaponDamage(weapon string) (int, bool) {
	dmg, ok := Weapons[weapon]
	return dmg, ok
}
