package services

import (
	"context"
	"fmt"
	"net/http"

	ldap "github.com/go-ldap/ldap/v3"
	"go.uber.org/zap"

	"staff-portal/internal/entities"
	"staff-portal/pkg/config"
	apperrors "staff-portal/pkg/errors"
)

const directorySearchFilter = "(&(objectCategory=person)(objectClass=user))"

// DirectoryClientInterface читает учётные записи из внешнего каталога
// постранично и отдаёт их сырыми — без какой-либо бизнес-логики.
type DirectoryClientInterface interface {
	FetchAll(ctx context.Context) ([]entities.DirectoryRecord, error)
}

type LDAPDirectoryClient struct {
	ldapCfg *config.LDAPConfig
	logger  *zap.Logger
}

func NewLDAPDirectoryClient(ldapCfg *config.LDAPConfig, logger *zap.Logger) DirectoryClientInterface {
	return &LDAPDirectoryClient{ldapCfg: ldapCfg, logger: logger}
}

// FetchAll выгружает все записи каталога. Постраничный курсор живёт в
// cookie LDAP-контрола: он привязан к соединению, поэтому страницы читаются
// строго последовательно до пустого cookie.
func (c *LDAPDirectoryClient) FetchAll(ctx context.Context) ([]entities.DirectoryRecord, error) {
	if !c.ldapCfg.Enabled {
		c.logger.Warn("[AD_IMPORT] Попытка импорта, когда функция отключена")
		return nil, apperrors.NewHttpError(http.StatusServiceUnavailable, "Импорт из Active Directory отключен в конфигурации.", nil, nil)
	}
	if c.ldapCfg.BindDN == "" || c.ldapCfg.BindPassword == "" {
		return nil, apperrors.ErrLDAPNotConfigured
	}

	conn, err := ldap.DialURL(fmt.Sprintf("ldap://%s:%d", c.ldapCfg.Host, c.ldapCfg.Port))
	if err != nil {
		c.logger.Error("[AD_IMPORT] Не удалось подключиться к LDAP-серверу", zap.Error(err))
		return nil, fmt.Errorf("ошибка подключения к каталогу: %w", err)
	}
	defer conn.Close()

	if err := conn.Bind(c.ldapCfg.BindDN, c.ldapCfg.BindPassword); err != nil {
		c.logger.Error("[AD_IMPORT] Не удалось выполнить Bind под сервисной учетной записью",
			zap.Error(err), zap.String("bind_dn", c.ldapCfg.BindDN))
		return nil, fmt.Errorf("ошибка аутентификации в каталоге: %w", err)
	}

	pageSize := c.ldapCfg.PageSize
	if pageSize == 0 {
		pageSize = 1000
	}
	paging := ldap.NewControlPaging(pageSize)

	var records []entities.DirectoryRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		searchRequest := ldap.NewSearchRequest(
			c.ldapCfg.BaseDN,
			ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 0, 0, false,
			directorySearchFilter,
			[]string{"*", "+"},
			[]ldap.Control{paging},
		)

		sr, err := conn.Search(searchRequest)
		if err != nil {
			c.logger.Error("[AD_IMPORT] Ошибка при выполнении поиска в AD", zap.Error(err))
			return nil, fmt.Errorf("ошибка поиска в каталоге: %w", err)
		}

		for _, entry := range sr.Entries {
			attributes := make(map[string][]string, len(entry.Attributes))
			for _, attr := range entry.Attributes {
				attributes[attr.Name] = attr.Values
			}
			records = append(records, entities.DirectoryRecord{DN: entry.DN, Attributes: attributes})
		}

		responseControl := ldap.FindControl(sr.Controls, ldap.ControlTypePaging)
		pagingResult, ok := responseControl.(*ldap.ControlPaging)
		if !ok || len(pagingResult.Cookie) == 0 {
			break
		}
		paging.SetCookie(pagingResult.Cookie)
	}

	c.logger.Info("[AD_IMPORT] Выгрузка каталога завершена", zap.Int("records", len(records)))
	return records, nil
}
