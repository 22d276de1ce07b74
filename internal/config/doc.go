// Package config загружает конфигурацию flewid через viper.
//
// Источники по возрастанию приоритета:
//   - значения по умолчанию
//   - YAML файл (--config или flewid.yaml в . и ./config)
//   - .env файл (godotenv, не перезаписывает окружение)
//   - переменные окружения FLEWID_<SECTION>_<KEY>, а также LOG_LEVEL,
//     LOG_FORMAT, DB_URL, RABBITMQ_URL, WORKER_ADDR
package config
