// Package variables реализует передачу данных между шагами workflow.
//
// Шаг может сослаться на результат ранее выполненного шага строкой вида
// {{nodeId.path}}, например {{cloudwatch1.extractedData.userIds[0]}}.
//
// Пакет состоит из частей:
//
//   - Store: результаты успешных шагов одного run
//   - Parse: поиск ссылок {{...}} в строке
//   - Resolve: обход пути ссылки по сохранённому результату
//   - SubstituteString / SubstituteConfig: подстановка значений в конфигурацию
//   - Extractor: нормализация сырого результата шага по его типу
//
// Ошибки разрешения и извлечения никогда не прерывают шаг. Они возвращаются
// явно (StringResult.Unresolved, Extraction.Err), а вызывающий решает,
// показать их или проигнорировать.
package variables
