package sqlu

import (
	"strings"

	"github.com/lib/pq"
)

/*
Reports whether the identifier must be quoted under the given reserved word
set. An identifier is left unquoted only when it's entirely lower case, made of
`[a-z0-9_$]`, doesn't start with a digit or `$`, and isn't reserved. Quoting
anything else preserves its exact spelling.
*/
func requiresQuotes(reserved wordSet, name string) bool {
	if name == `` {
		return true
	}
	if isIllegalInitial(name[0]) {
		return true
	}
	for i := 0; i < len(name); i++ {
		if !isLegalIdentChar(name[i]) {
			return true
		}
	}
	return reserved.has(name)
}

func isIllegalInitial(char byte) bool {
	return char == '$' || (char >= '0' && char <= '9')
}

func isLegalIdentChar(char byte) bool {
	return (char >= 'a' && char <= 'z') ||
		(char >= '0' && char <= '9') ||
		char == '_' || char == '$'
}

// Appends a double-quoted identifier. Inner double quotes are doubled.
func appendQuotedDouble(text []byte, name string) []byte {
	return append(text, pq.QuoteIdentifier(name)...)
}

// Appends a backtick-quoted identifier. Inner backticks are doubled.
func appendQuotedBacktick(text []byte, name string) []byte {
	text = append(text, '`')
	text = append(text, strings.ReplaceAll(name, "`", "``")...)
	text = append(text, '`')
	return text
}

type wordSet map[string]struct{}

func (self wordSet) has(name string) bool {
	_, ok := self[strings.ToLower(name)]
	return ok
}

func wordSetOf(src string) wordSet {
	out := wordSet{}
	for _, val := range strings.Fields(src) {
		out[val] = struct{}{}
	}
	return out
}

// Reserved words of standard SQL that every dialect quotes.
var genericReserved = wordSetOf(`
	all analyse analyze and any array as asc asymmetric authorization between
	binary both case cast check collate column constraint create cross
	current_date current_role current_time current_timestamp current_user
	default deferrable desc distinct do else end except false for foreign
	freeze from full grant group having ilike in initially inner intersect into
	is isnull join leading left like limit localtime localtimestamp natural new
	not notnull null off offset old on only or order outer overlaps placing
	primary references right select session_user set similar some symmetric
	table then to trailing true union unique user using verbose when where
`)

var postgresReserved = wordSetOf(`
	all analyse analyze and any array as asc asymmetric authorization between
	binary both case cast check collate collation column concurrently
	constraint create cross current_catalog current_date current_role
	current_schema current_time current_timestamp current_user default
	deferrable desc distinct do else end except false fetch for foreign freeze
	from full grant group having ilike in initially inner intersect into is
	isnull join lateral leading left like limit localtime localtimestamp
	natural not notnull null offset on only or order outer overlaps placing
	primary references returning right select session_user similar some
	symmetric system_user table tablesample then to trailing true union unique
	user using variadic verbose when where window with
`)

var mysqlReserved = wordSetOf(`
	accessible add all alter analyze and as asc asensitive before between
	bigint binary blob both by call cascade case change char character check
	collate column condition constraint continue convert create cross cube
	cume_dist current_date current_time current_timestamp current_user cursor
	database databases day_hour day_microsecond day_minute day_second dec
	decimal declare default delayed delete dense_rank desc describe
	deterministic distinct distinctrow div double drop dual each else elseif
	empty enclosed escaped except exists exit explain false fetch first_value
	float float4 float8 for force foreign from fulltext function generated get
	grant group grouping groups having high_priority hour_microsecond
	hour_minute hour_second if ignore in index infile inner inout insensitive
	insert int int1 int2 int3 int4 int8 integer intersect interval into
	io_after_gtids io_before_gtids is iterate join json_table key keys kill lag
	last_value lateral lead leading leave left like limit linear lines load
	localtime localtimestamp lock long longblob longtext loop low_priority
	master_bind master_ssl_verify_server_cert match maxvalue mediumblob
	mediumint mediumtext middleint minute_microsecond minute_second mod
	modifies natural not no_write_to_binlog nth_value ntile null numeric of on
	optimize optimizer_costs option optionally or order out outer outfile over
	partition percent_rank precision primary procedure purge range rank read
	read_write reads real recursive references regexp release rename repeat
	replace require resignal restrict return revoke right rlike row row_number
	rows schema schemas second_microsecond select sensitive separator set show
	signal smallint spatial specific sql sql_big_result sql_calc_found_rows
	sql_small_result sqlexception sqlstate sqlwarning ssl starting stored
	straight_join system table terminated then tinyblob tinyint tinytext to
	trailing trigger true undo union unique unlock unsigned update usage use
	using utc_date utc_time utc_timestamp values varbinary varchar varcharacter
	varying virtual when where while window with write xor year_month zerofill
`)

var sqliteReserved = wordSetOf(`
	abort action add after all alter always analyze and as asc attach
	autoincrement before begin between by cascade case cast check collate
	column commit conflict constraint create cross current current_date
	current_time current_timestamp database default deferrable deferred delete
	desc detach distinct do drop each else end escape except exclude exclusive
	exists explain fail filter first following for foreign from full generated
	glob group groups having if ignore immediate in index indexed initially
	inner insert instead intersect into is isnull join key last left like
	limit match materialized natural no not nothing notnull null nulls of
	offset on or order others outer over partition plan pragma preceding
	primary query raise range recursive references regexp reindex release
	rename replace restrict returning right rollback row rows savepoint select
	set table temp temporary then ties to transaction trigger unbounded union
	unique update using vacuum values view virtual when where window with
	without
`)
