package search

import (
	"context"
	"strconv"

	"go-teashop/apps/store/model"

	"github.com/olivere/elastic/v7"
)

// productDoc 进索引的字段，只放搜索需要的
type productDoc struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ESIndexer 基于 Elasticsearch 的商品搜索
// 管理端每次写商品都同步刷索引
type ESIndexer struct {
	client *elastic.Client
	index  string
}

// NewESIndexer 连接 ES，单节点部署关掉 sniff
func NewESIndexer(address, index string) (*ESIndexer, error) {
	if index == "" {
		index = "products"
	}
	client, err := elastic.NewClient(
		elastic.SetURL(address),
		elastic.SetSniff(false),
	)
	if err != nil {
		return nil, err
	}
	return &ESIndexer{client: client, index: index}, nil
}

// Index 写入/覆盖一条商品文档
func (e *ESIndexer) Index(ctx context.Context, p *model.Product) error {
	doc := productDoc{ID: p.ID, Name: p.Name, Description: p.Description}
	_, err := e.client.Index().
		Index(e.index).
		Id(strconv.FormatUint(uint64(p.ID), 10)).
		BodyJson(doc).
		Do(ctx)
	return err
}

// Remove 删除商品文档，文档本来就不存在不算错误
func (e *ESIndexer) Remove(ctx context.Context, id uint) error {
	_, err := e.client.Delete().
		Index(e.index).
		Id(strconv.FormatUint(uint64(id), 10)).
		Do(ctx)
	if elastic.IsNotFound(err) {
		return nil
	}
	return err
}

// Search 在名称和描述上做全文匹配，返回命中的商品 ID
func (e *ESIndexer) Search(ctx context.Context, keyword string) ([]uint, error) {
	query := elastic.NewMultiMatchQuery(keyword, "name", "description")
	result, err := e.client.Search().
		Index(e.index).
		Query(query).
		Size(200).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		id, err := strconv.ParseUint(hit.Id, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
