package config

import (
	"regexp"
	"sort"
	"strings"

	"github.com/teranos/javabind/errors"
	"github.com/teranos/javabind/naming"
)

var javaIdent = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if err := c.Bindings.Java.validate("bindings.java"); err != nil {
		return err
	}

	namespaces := make([]string, 0, len(c.Components))
	for ns := range c.Components {
		namespaces = append(namespaces, ns)
	}
	sort.Strings(namespaces)
	for _, ns := range namespaces {
		if err := c.Components[ns].validate("components." + ns); err != nil {
			return err
		}
	}

	// Workers: 0 = one per CPU, negative = invalid
	if c.Javabind.Workers < 0 {
		return errors.MarkInvalidConfig("javabind.workers must be >= 0, got %d", c.Javabind.Workers)
	}
	if _, err := c.Javabind.ReservedPolicy(); err != nil {
		return err
	}
	if _, err := c.Javabind.FormatArgs(); err != nil {
		return err
	}
	return nil
}

func (j JavaConfig) validate(section string) error {
	if j.Package != "" {
		if err := ValidatePackageName(j.Package); err != nil {
			return errors.Wrapf(err, "%s.package_name", section)
		}
	}

	crates := make([]string, 0, len(j.ExternalPackages))
	for crate := range j.ExternalPackages {
		crates = append(crates, crate)
	}
	sort.Strings(crates)
	for _, crate := range crates {
		if err := ValidatePackageName(j.ExternalPackages[crate]); err != nil {
			return errors.Wrapf(err, "%s.external_packages.%s", section, crate)
		}
	}

	names := make([]string, 0, len(j.CustomTypes))
	for name := range j.CustomTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ct := j.CustomTypes[name]
		for _, kv := range [][2]string{{"into_custom", ct.IntoCustom}, {"from_custom", ct.FromCustom}} {
			if kv[1] != "" && !strings.Contains(kv[1], "{}") {
				err := errors.MarkInvalidConfig("%s.custom_types.%s.%s has no {} placeholder: %q", section, name, kv[0], kv[1])
				return errors.WithHint(err, "use {} where the converted value goes, e.g. \"new java.net.URL({})\"")
			}
		}
	}
	return nil
}

// ValidatePackageName checks that name is a dotted sequence of Java identifiers
func ValidatePackageName(name string) error {
	if name == "" {
		return errors.MarkInvalidConfig("package name is empty")
	}
	for _, segment := range strings.Split(name, ".") {
		if !javaIdent.MatchString(segment) {
			return errors.MarkInvalidConfig("%q is not a valid Java package name", name)
		}
		if naming.IsReserved(segment) {
			return errors.WithHintf(
				errors.MarkInvalidConfig("%q uses the reserved word %q", name, segment),
				"rename the %q segment, Java does not allow keywords in package names", segment)
		}
	}
	return nil
}
