package shopify

// GraphQL documents for the Admin API. Variables carry all caller input so
// the documents themselves stay constant.

const productCreateMutation = `
mutation productCreate($input: ProductInput!, $media: [CreateMediaInput!]) {
  productCreate(input: $input, media: $media) {
    product {
      id
      variants(first: 1) {
        nodes { id }
      }
    }
    userErrors { field message }
  }
}`

const variantsBulkUpdateMutation = `
mutation productVariantsBulkUpdate($productId: ID!, $variants: [ProductVariantsBulkInput!]!) {
  productVariantsBulkUpdate(productId: $productId, variants: $variants) {
    productVariants { id barcode }
    userErrors { field message }
  }
}`

const variantsBulkCreateMutation = `
mutation productVariantsBulkCreate($productId: ID!, $variants: [ProductVariantsBulkInput!]!) {
  productVariantsBulkCreate(productId: $productId, variants: $variants) {
    productVariants { id barcode }
    userErrors { field message }
  }
}`

const variantAppendMediaMutation = `
mutation productVariantAppendMedia($productId: ID!, $variantMedia: [ProductVariantAppendMediaInput!]!) {
  productVariantAppendMedia(productId: $productId, variantMedia: $variantMedia) {
    userErrors { field message }
  }
}`

const publishablePublishMutation = `
mutation publishablePublish($id: ID!, $input: [PublicationInput!]!) {
  publishablePublish(id: $id, input: $input) {
    userErrors { field message }
  }
}`

const publicationsQuery = `
query publications {
  publications(first: 1) {
    nodes { id }
  }
}`

const variantPageQuery = `
query productVariants($productId: ID!, $first: Int!, $after: String) {
  product(id: $productId) {
    variants(first: $first, after: $after) {
      nodes { id barcode }
      pageInfo { hasNextPage endCursor }
    }
  }
}`

const mediaPageQuery = `
query productMedia($productId: ID!, $first: Int!, $after: String) {
  product(id: $productId) {
    media(first: $first, after: $after) {
      nodes {
        ... on MediaImage { id alt }
      }
      pageInfo { hasNextPage endCursor }
    }
  }
}`
