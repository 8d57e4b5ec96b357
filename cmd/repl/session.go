package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bawdo/litequery/connection"
	"github.com/bawdo/litequery/managers"
	"github.com/bawdo/litequery/nodes"
	"github.com/bawdo/litequery/plugins"
)

var errNoQuery = errors.New("no query defined (use 'from <table>' first)")

// orderEntry is one ORDER BY item of the query being built.
type orderEntry struct {
	field *nodes.Field
	desc  bool
}

// Session holds the REPL state: the connection, the introspected schema,
// the query being built and any enabled plugins.
type Session struct {
	ctx      context.Context
	conn     *connection.Connection
	schema   schemaCache
	model    *nodes.Model // root model of the query being built, nil when none
	where    nodes.Node
	orders   []orderEntry
	limit    *int64
	offset   *int64
	plugins  pluginRegistry
	commands []commandEntry // command registry (sorted by prefix length desc)
	out      io.Writer      // destination for REPL output (default os.Stdout)
}

// NewSession creates a session on a started connection.
func NewSession(ctx context.Context, conn *connection.Connection, out io.Writer) *Session {
	if out == nil {
		out = os.Stdout
	}
	s := &Session{
		ctx:     ctx,
		conn:    conn,
		out:     out,
		plugins: newPluginRegistry(pluginConfigurer{name: "softdelete", configure: configureSoftdelete}),
	}
	s.initCommands()
	if err := s.schema.load(ctx, conn); err != nil {
		// Non-fatal: the schema only feeds completion and model lookups.
		_, _ = fmt.Fprintf(s.out, "  Note: schema introspection failed: %v\n", err)
	}
	return s
}

// Execute runs a single REPL command. Lines that are not commands run as SQL.
func (s *Session) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	lower := strings.ToLower(line)

	for _, cmd := range s.commands {
		if strings.HasSuffix(cmd.prefix, " ") {
			if strings.HasPrefix(lower, cmd.prefix) {
				return cmd.handler(strings.TrimSpace(line[len(cmd.prefix):]))
			}
		} else if lower == cmd.prefix {
			return cmd.handler("")
		}
	}
	return s.cmdQuery(line)
}

func (s *Session) print(text string) {
	_, _ = io.WriteString(s.out, text)
}

// --- Schema commands ---

func (s *Session) cmdQuery(sql string) error {
	res, err := s.conn.Query(s.ctx, sql)
	if err != nil {
		return err
	}
	s.print(formatResult(res))
	// DDL may have changed the schema.
	if res != nil && len(res.Columns) == 0 {
		_ = s.schema.load(s.ctx, s.conn)
	}
	return nil
}

func (s *Session) cmdTables() error {
	if err := s.schema.load(s.ctx, s.conn); err != nil {
		return err
	}
	rows := make([][]string, len(s.schema.tables))
	for i, t := range s.schema.tables {
		rows[i] = []string{t}
	}
	s.print(formatTable([]string{"table"}, rows))
	return nil
}

func (s *Session) cmdColumns(table string) error {
	if table == "" {
		return errors.New("usage: columns <table>")
	}
	id, err := s.conn.Generator().EscapeID(table)
	if err != nil {
		return err
	}
	res, err := s.conn.Pragma(s.ctx, "table_info("+id+")")
	if err != nil {
		return err
	}
	if len(res.Rows) == 0 {
		return fmt.Errorf("no such table: %s", table)
	}
	s.print(formatResult(res))
	return nil
}

func (s *Session) cmdPragma(args string) error {
	if args == "" {
		return errors.New("usage: pragma <statement>")
	}
	res, err := s.conn.Pragma(s.ctx, args)
	if err != nil {
		return err
	}
	s.print(formatResult(res))
	return nil
}

func (s *Session) cmdForeignKeys(args string) error {
	switch strings.ToLower(args) {
	case "on":
		return s.conn.EnableForeignKeyConstraints(s.ctx, true)
	case "off":
		return s.conn.EnableForeignKeyConstraints(s.ctx, false)
	}
	return errors.New("usage: fk on|off")
}

func (s *Session) cmdTruncate(table string) error {
	if table == "" {
		return errors.New("usage: truncate <table>")
	}
	m, err := s.schema.model(s.ctx, s.conn, table)
	if err != nil {
		return err
	}
	n, err := s.conn.Truncate(s.ctx, m)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  Truncated %s (%d rows)\n", table, n)
	return nil
}

// --- Query building ---

func (s *Session) cmdFrom(table string) error {
	if table == "" {
		return errors.New("usage: from <table>")
	}
	m, err := s.schema.model(s.ctx, s.conn, table)
	if err != nil {
		return err
	}
	s.resetQuery()
	s.model = m
	_, _ = fmt.Fprintf(s.out, "  Query: %s (model %s)\n", table, m.Name)
	return nil
}

func (s *Session) cmdWhere(args string) error {
	if s.model == nil {
		return errNoQuery
	}
	cond, err := parseCondition(s.model, args)
	if err != nil {
		return err
	}
	s.where = nodes.And(s.where, cond)
	return nil
}

func (s *Session) cmdOrder(args string) error {
	if s.model == nil {
		return errNoQuery
	}
	for _, part := range strings.Split(args, ",") {
		words := strings.Fields(part)
		if len(words) == 0 || len(words) > 2 {
			return fmt.Errorf("invalid order: %q", strings.TrimSpace(part))
		}
		f, err := resolveField(s.model, words[0])
		if err != nil {
			return err
		}
		entry := orderEntry{field: f}
		if len(words) == 2 {
			switch strings.ToLower(words[1]) {
			case "asc":
			case "desc":
				entry.desc = true
			default:
				return fmt.Errorf("invalid direction: %s", words[1])
			}
		}
		s.orders = append(s.orders, entry)
	}
	return nil
}

func (s *Session) cmdLimit(args string) error {
	n, err := s.parseCount("limit", args)
	if err != nil {
		return err
	}
	s.limit = &n
	return nil
}

func (s *Session) cmdOffset(args string) error {
	n, err := s.parseCount("offset", args)
	if err != nil {
		return err
	}
	s.offset = &n
	return nil
}

func (s *Session) parseCount(name, args string) (int64, error) {
	if s.model == nil {
		return 0, errNoQuery
	}
	n, err := strconv.ParseInt(args, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %s", name, args)
	}
	return n, nil
}

func (s *Session) resetQuery() {
	s.model = nil
	s.where = nil
	s.orders = nil
	s.limit = nil
	s.offset = nil
}

func (s *Session) cmdReset() error {
	s.resetQuery()
	_, _ = fmt.Fprintln(s.out, "  Query reset.")
	return nil
}

// selectManager builds the current query with the enabled plugins applied.
func (s *Session) selectManager() (*managers.SelectManager, error) {
	if s.model == nil {
		return nil, errNoQuery
	}
	m := managers.NewSelectManager(s.model)
	if s.where != nil {
		m.Where(s.where)
	}
	for _, o := range s.orders {
		if o.desc {
			m.OrderDesc(o.field)
		} else {
			m.Order(o.field)
		}
	}
	if s.limit != nil {
		m.Limit(*s.limit)
	}
	if s.offset != nil {
		m.Offset(*s.offset)
	}
	s.plugins.applyTo(func(t plugins.Transformer) { m.Use(t) })
	return m, nil
}

func (s *Session) cmdSQL() error {
	m, err := s.selectManager()
	if err != nil {
		return err
	}
	sql, err := m.ToSQL(s.conn.Generator())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(s.out, sql)
	return nil
}

func (s *Session) cmdRun() error {
	m, err := s.selectManager()
	if err != nil {
		return err
	}
	q, err := m.Query()
	if err != nil {
		return err
	}
	res, err := s.conn.Select(s.ctx, q)
	if err != nil {
		return err
	}
	s.print(formatResult(res))
	return nil
}

// cmdDelete deletes the rows matched by the current query.
func (s *Session) cmdDelete() error {
	if s.model == nil {
		return errNoQuery
	}
	m := managers.NewDeleteManager(s.model)
	if s.where != nil {
		m.Where(s.where)
	}
	if s.limit != nil {
		m.Limit(*s.limit)
	}
	s.plugins.applyTo(func(t plugins.Transformer) { m.Use(t) })
	sql, err := m.ToSQL(s.conn.Generator())
	if err != nil {
		return err
	}
	return s.cmdQuery(sql)
}

// cmdInsert parses "<table> col = value, col = value" and inserts one row.
// Fields left out are filled from their defaults.
func (s *Session) cmdInsert(args string) error {
	words := strings.Fields(args)
	if len(words) == 0 {
		return errors.New("usage: insert <table> [col = value, ...]")
	}
	if strings.EqualFold(words[0], "into") {
		return s.cmdQuery("INSERT " + args)
	}
	m, err := s.schema.model(s.ctx, s.conn, words[0])
	if err != nil {
		return err
	}

	values := connection.Values{}
	tokens := tokenize(strings.TrimSpace(args[len(words[0]):]))
	for len(tokens) > 0 {
		if len(tokens) < 3 || tokens[1] != "=" {
			return fmt.Errorf("expected <col> = <value>, got %s", strings.Join(tokens, " "))
		}
		f, err := resolveField(m, tokens[0])
		if err != nil {
			return err
		}
		v, err := parseValue(tokens[2])
		if err != nil {
			return err
		}
		values[f.Name] = v
		tokens = tokens[3:]
		if len(tokens) > 0 {
			if tokens[0] != "," {
				return fmt.Errorf("expected ',' before %s", tokens[0])
			}
			tokens = tokens[1:]
		}
	}

	res, err := s.conn.Insert(s.ctx, m, values)
	if err != nil {
		return err
	}
	s.print(formatResult(res))
	return nil
}

// --- Plugins ---

func (s *Session) pluginNames() []string {
	return s.plugins.knownNames()
}

func (s *Session) cmdPlugin(args string) error {
	parts := strings.Fields(args)
	if len(parts) == 0 {
		return errors.New("usage: plugin <name> [args] | plugin off <name>")
	}
	if strings.ToLower(parts[0]) == "off" {
		if len(parts) != 2 {
			return errors.New("usage: plugin off <name>")
		}
		if err := s.plugins.disable(parts[1]); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(s.out, "  %s disabled\n", parts[1])
		return nil
	}
	c, err := s.plugins.lookup(parts[0])
	if err != nil {
		return err
	}
	return c.configure(s, strings.TrimSpace(args[len(parts[0]):]))
}

func (s *Session) cmdPlugins() {
	lines := s.plugins.statusLines()
	if len(lines) == 0 {
		_, _ = fmt.Fprintln(s.out, "  No plugins enabled.")
		return
	}
	for _, l := range lines {
		_, _ = fmt.Fprintln(s.out, "  "+l)
	}
}

func (s *Session) cmdHelp() {
	_, _ = fmt.Fprintln(s.out, `
  Schema:
    tables                    List tables
    columns <table>           Show a table's columns
    pragma <statement>        Run PRAGMA <statement>
    fk on|off                 Toggle foreign key enforcement
    truncate <table>          Delete every row and reset id counters

  Query Building:
    from <table>              Start a new query
    where <condition>         Add a WHERE condition (ANDed)
    order <col> [asc|desc]    Add ORDER BY (comma-separated)
    limit <n>                 Set LIMIT
    offset <n>                Set OFFSET
    sql                       Show the generated SELECT
    run                       Execute the query
    delete                    Delete the rows the query matches
    reset                     Clear the query

  Rows:
    insert <table> [col = value, ...]  Insert one row, filling defaults

  Plugins:
    plugin softdelete [field] [on <Model> ...]  Filter soft-deleted rows
    plugin off <name>         Disable a plugin
    plugins                   List enabled plugins

  Anything else runs as SQL. Type 'exit' to quit.`)
}
