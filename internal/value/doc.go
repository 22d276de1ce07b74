// Package value содержит закрытый алгебраический тип для JSON-подобных деревьев.
//
// Конфигурации шагов и результаты их выполнения имеют произвольную форму.
// Вместо any используется Value с шестью вариантами:
//
//	Null, Bool, Number, String, List, Map
//
// Подстановка переменных и извлечение данных делают type switch по этим
// вариантам, и набор вариантов не может расшириться снаружи пакета.
//
// Map и List умеют декодироваться из JSON и YAML, поэтому их можно
// использовать прямо в структурах, описывающих workflow.
package value
