package main

// @title           CRM Atendimento API
// @version         1.0
// @description     Gateway do chat de atendimento: envio ao agente via webhook, histórico e eventos em tempo real

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Cabeçalho de autenticação JWT usando o esquema Bearer. Exemplo: "Bearer {token}"
