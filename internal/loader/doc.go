// Package loader читает workflow из JSON и YAML файлов.
//
// Пример YAML:
//
//	id: user-errors
//	nodes:
//	  - id: start
//	    type: start
//	  - id: logs
//	    type: cloudwatch
//	    config:
//	      query: "fields @message | filter @message like /ERROR/"
//	  - id: users
//	    type: dynamodb
//	    config:
//	      key: "{{logs.extractedData.userIds[0]}}"
//	edges:
//	  - {source: start, target: logs}
//	  - {source: logs, target: users}
package loader
