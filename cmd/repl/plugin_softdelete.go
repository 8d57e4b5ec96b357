package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bawdo/litequery/plugins"
	"github.com/bawdo/litequery/plugins/softdelete"
)

// configureSoftdelete parses softdelete arguments and registers the plugin.
//
//	plugin softdelete                        deleted_at on every model
//	plugin softdelete removed_at             one field on every model
//	plugin softdelete removed_at on User Post
//	plugin softdelete User.deleted_at, Post.removed_at
func configureSoftdelete(s *Session, args string) error {
	rest := strings.TrimSpace(args)
	var opts []softdelete.Option
	var statusFn func() string

	switch {
	case strings.Contains(rest, "."):
		pairs := strings.Split(rest, ",")
		fields := map[string]string{}
		for _, pair := range pairs {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			dot := strings.IndexByte(pair, '.')
			if dot <= 0 || dot == len(pair)-1 {
				return fmt.Errorf("invalid model.field pair: %q", pair)
			}
			model, field := pair[:dot], pair[dot+1:]
			opts = append(opts, softdelete.WithModelField(model, field))
			fields[model] = field
		}
		statusFn = func() string {
			pairs := make([]string, 0, len(fields))
			for m, f := range fields {
				pairs = append(pairs, m+"."+f)
			}
			sort.Strings(pairs)
			return strings.Join(pairs, ", ")
		}
		_, _ = fmt.Fprintln(s.out, "  Soft-delete enabled (per-model fields)")

	case strings.Contains(strings.ToLower(rest), " on "):
		idx := strings.Index(strings.ToLower(rest), " on ")
		field := strings.TrimSpace(rest[:idx])
		models := strings.Fields(rest[idx+4:])
		if field == "" || len(models) == 0 {
			return errors.New("usage: plugin softdelete <field> on <Model1> [Model2 ...]")
		}
		opts = append(opts, softdelete.WithField(field), softdelete.WithModels(models...))
		statusFn = func() string {
			return fmt.Sprintf("field: %s, models: %s", field, strings.Join(models, ", "))
		}
		_, _ = fmt.Fprintf(s.out, "  Soft-delete enabled (field: %s, models: %s)\n", field, strings.Join(models, ", "))

	case rest != "":
		field := strings.Fields(rest)[0]
		opts = append(opts, softdelete.WithField(field))
		statusFn = func() string { return "field: " + field }
		_, _ = fmt.Fprintf(s.out, "  Soft-delete enabled (field: %s)\n", field)

	default:
		statusFn = func() string { return "field: " + softdelete.DefaultField }
		_, _ = fmt.Fprintf(s.out, "  Soft-delete enabled (field: %s)\n", softdelete.DefaultField)
	}

	s.plugins.enable(enabledPlugin{
		name:    "softdelete",
		factory: func() plugins.Transformer { return softdelete.New(opts...) },
		status:  statusFn,
	})
	return nil
}
