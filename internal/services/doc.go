// Package services builds the dashboard views.
//
// A view reads its flat files on every call, applies one explicit
// domain.FilterSelection and returns chart options plus the wide tables they
// were drawn from. Nothing is cached between calls and no filter state is
// kept on the service.
//
// Four views are registered by NewViewService:
//
//	overview          workbook with the Dochody, Przychody, Wydatki and Rozchody sheets
//	current-expenses  per-period CSV exports of current expenditure tasks
//	districts         per-period CSV plans of the city districts
//	income-expense    yearly CSV plans of incomes and expenditures
//
// HealthService reports liveness and checks in parallel that every data
// source is readable.
package services
