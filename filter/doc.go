// Package filter compiles the key-value filter mapping accepted by the table
// accessor into typed directives: predicates, grouping, ordering and a page window.
//
// Keys carry an optional operator prefix:
//
//	{"id": 2}                 -> `id` = 2
//	{"_ne_id": 2}             -> `id` != '2'
//	{"_ge_id": 5}             -> `id` >= '5'
//	{"_in_id": "1,2,3"}       -> `id` IN (1,2,3)
//	{"_nein_id": "4,5"}       -> `id` NOT IN (4,5)
//	{"_like_name": "zh"}      -> `name` LIKE '%zh%'
//	{"_llike_name": "zh"}     -> `name` LIKE '%zh'
//	{"_rlike_name": "zh"}     -> `name` LIKE 'zh%'
//	{"groupby": "status"}     -> GROUP BY `status`
//	{"orderby": "id", "ordertype": "desc"} -> ORDER BY `id` DESC
//	{"page": filter.NewPage(2, 20)}        -> LIMIT 20,20
//
// The key is parsed once into an Operator; rendering is left to the dialect package.
package filter
