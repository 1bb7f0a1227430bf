package generated

// Типы и chi-сервер генерируются из openapi.yaml. После правки контракта:
//
//	go generate ./internal/api/generated/...
//
//go:generate go run github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen@v2.4.1 --config=oapi-codegen.yaml openapi.yaml
